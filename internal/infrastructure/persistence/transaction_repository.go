package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	err := dbFor(ctx, r.db).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Transaction, error) {
	query := r.applyFilter(dbFor(ctx, r.db), filter)
	return r.list(query)
}

// FindBetween lists transactions with an occurrence date in the
// inclusive range, newest first
func (r *GormTransactionRepository) FindBetween(ctx context.Context, start, end time.Time) ([]finance.Transaction, error) {
	query := dbFor(ctx, r.db).
		Where("occurred_on >= ? AND occurred_on <= ?", start, end).
		Order("occurred_on DESC")
	return r.list(query)
}

// FindPendingChequesDueOn lists pending cheques due on the given day
func (r *GormTransactionRepository) FindPendingChequesDueOn(ctx context.Context, day time.Time) ([]finance.Transaction, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	query := dbFor(ctx, r.db).
		Where("method = ?", finance.MethodCheque.String()).
		Where("status = ?", string(finance.ChequePending)).
		Where("occurred_on >= ? AND occurred_on < ?", start, end).
		Order("occurred_on ASC")
	return r.list(query)
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	if err := dbFor(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// Delete removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&models.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFor(ctx, r.db).Model(&models.TransactionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *GormTransactionRepository) list(query *gorm.DB) ([]finance.Transaction, error) {
	var modelList []models.TransactionModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	transactions := make([]finance.Transaction, 0, len(modelList))
	for i := range modelList {
		transactions = append(transactions, *modelList[i].ToDomain())
	}
	return transactions, nil
}

// applyFilter applies search, ordering and pagination to the query.
// A non-positive page size disables pagination.
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "occurred_on")
	if orderBy == "created_at" {
		orderBy = "occurred_on"
	}
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies only the search and field filters
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR subtitle ILIKE ?", search, search)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
