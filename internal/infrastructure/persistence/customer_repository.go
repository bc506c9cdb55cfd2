package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID, vehicles included
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	err := dbFor(ctx, r.db).
		Preload("Vehicles").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByDocument finds a customer by its document (CPF/CNPJ)
func (r *GormCustomerRepository) FindByDocument(ctx context.Context, document string) (*partner.Customer, error) {
	var model models.CustomerModel
	err := dbFor(ctx, r.db).
		Preload("Vehicles").
		First(&model, "document = ?", strings.TrimSpace(document)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by document: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByVehiclePlate finds the customer owning the vehicle with the given plate
func (r *GormCustomerRepository) FindByVehiclePlate(ctx context.Context, plate string) (*partner.Customer, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))

	var vehicle models.VehicleModel
	err := dbFor(ctx, r.db).First(&vehicle, "plate = ?", plate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle by plate: %w", err)
	}

	return r.FindByID(ctx, vehicle.CustomerID)
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var modelList []models.CustomerModel
	query := r.applyFilter(dbFor(ctx, r.db).Preload("Vehicles"), filter)
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]partner.Customer, 0, len(modelList))
	for i := range modelList {
		customers = append(customers, *modelList[i].ToDomain())
	}
	return customers, nil
}

// Save creates or updates a customer together with its vehicles.
// Vehicles removed from the aggregate are deleted.
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)

	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save customer: %w", err)
		}

		keep := make([]uuid.UUID, 0, len(model.Vehicles))
		for i := range model.Vehicles {
			keep = append(keep, model.Vehicles[i].ID)
		}

		cleanup := tx.Where("customer_id = ?", model.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		if err := cleanup.Delete(&models.VehicleModel{}).Error; err != nil {
			return fmt.Errorf("failed to prune removed vehicles: %w", err)
		}
		return nil
	})
}

// Delete deletes a customer and all of its vehicles
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.VehicleModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete vehicles: %w", err)
		}

		result := tx.Delete(&models.CustomerModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete customer: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.CustomerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// ExistsByDocument checks if a customer with the given document exists
func (r *GormCustomerRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	var count int64
	err := dbFor(ctx, r.db).
		Model(&models.CustomerModel{}).
		Where("document = ?", strings.TrimSpace(document)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check document: %w", err)
	}
	return count > 0, nil
}

// applyFilter applies search, ordering and pagination to the query.
// A non-positive page size disables pagination.
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, CustomerSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies only the search and field filters
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR document ILIKE ?", search, search)
	}

	for key, value := range filter.Filters {
		switch key {
		case "document":
			query = query.Where("document = ?", value)
		}
	}

	return query
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
