package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/workshop"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormServiceOrderRepository implements workshop.ServiceOrderRepository
// using GORM. Active orders and history live in one table, split by the
// finished status.
type GormServiceOrderRepository struct {
	db *gorm.DB
}

// NewGormServiceOrderRepository creates a new GormServiceOrderRepository
func NewGormServiceOrderRepository(db *gorm.DB) *GormServiceOrderRepository {
	return &GormServiceOrderRepository{db: db}
}

// FindByID finds an order by ID, budget items included
func (r *GormServiceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.ServiceOrder, error) {
	var model models.ServiceOrderModel
	err := dbFor(ctx, r.db).
		Preload("Items").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service order: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its human-facing number
func (r *GormServiceOrderRepository) FindByNumber(ctx context.Context, number string) (*workshop.ServiceOrder, error) {
	var model models.ServiceOrderModel
	err := dbFor(ctx, r.db).
		Preload("Items").
		First(&model, "number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service order by number: %w", err)
	}
	return model.ToDomain(), nil
}

// FindActive lists orders that are not yet finished
func (r *GormServiceOrderRepository) FindActive(ctx context.Context, filter shared.Filter) ([]workshop.ServiceOrder, error) {
	query := dbFor(ctx, r.db).
		Preload("Items").
		Where("status <> ?", workshop.StatusFinished.String())
	return r.list(r.applyFilter(query, filter))
}

// FindHistory lists finished orders
func (r *GormServiceOrderRepository) FindHistory(ctx context.Context, filter shared.Filter) ([]workshop.ServiceOrder, error) {
	query := dbFor(ctx, r.db).
		Preload("Items").
		Where("status = ?", workshop.StatusFinished.String())
	return r.list(r.applyFilter(query, filter))
}

// FindFinishedBetween lists finished orders with a finish date in the
// inclusive range
func (r *GormServiceOrderRepository) FindFinishedBetween(ctx context.Context, start, end time.Time) ([]workshop.ServiceOrder, error) {
	query := dbFor(ctx, r.db).
		Preload("Items").
		Where("status = ?", workshop.StatusFinished.String()).
		Where("finished_date >= ? AND finished_date <= ?", start, end).
		Order("finished_date DESC")
	return r.list(query)
}

// Save creates or updates an order together with its budget items.
// A budget revision replaces every line, so stale rows are pruned.
func (r *GormServiceOrderRepository) Save(ctx context.Context, order *workshop.ServiceOrder) error {
	model := models.ServiceOrderModelFromDomain(order)

	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save service order: %w", err)
		}

		keep := make([]uuid.UUID, 0, len(model.Items))
		for i := range model.Items {
			keep = append(keep, model.Items[i].ID)
		}

		cleanup := tx.Where("order_id = ?", model.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		if err := cleanup.Delete(&models.BudgetItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to prune replaced budget items: %w", err)
		}
		return nil
	})
}

// Delete removes an order and its budget items
func (r *GormServiceOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.BudgetItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete budget items: %w", err)
		}

		result := tx.Delete(&models.ServiceOrderModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete service order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountActive counts orders not yet finished
func (r *GormServiceOrderRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := dbFor(ctx, r.db).
		Model(&models.ServiceOrderModel{}).
		Where("status <> ?", workshop.StatusFinished.String()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active orders: %w", err)
	}
	return count, nil
}

// CountFinishedOn counts orders finished on the given day
func (r *GormServiceOrderRepository) CountFinishedOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := dbFor(ctx, r.db).
		Model(&models.ServiceOrderModel{}).
		Where("status = ?", workshop.StatusFinished.String()).
		Where("finished_date >= ? AND finished_date < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count finished orders: %w", err)
	}
	return count, nil
}

func (r *GormServiceOrderRepository) list(query *gorm.DB) ([]workshop.ServiceOrder, error) {
	var modelList []models.ServiceOrderModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list service orders: %w", err)
	}

	orders := make([]workshop.ServiceOrder, 0, len(modelList))
	for i := range modelList {
		orders = append(orders, *modelList[i].ToDomain())
	}
	return orders, nil
}

// applyFilter applies search, ordering and pagination to the query.
// A non-positive page size disables pagination.
func (r *GormServiceOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where(
			"number ILIKE ? OR customer_name ILIKE ? OR plate ILIKE ? OR description ILIKE ?",
			search, search, search, search,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ServiceOrderSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

var _ workshop.ServiceOrderRepository = (*GormServiceOrderRepository)(nil)
