package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// ItemRepository defines the interface for inventory item persistence
type ItemRepository interface {
	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByCode finds an item by its code
	FindByCode(ctx context.Context, code string) (*Item, error)

	// FindAll lists items matching the filter; Search matches name or code
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// FindLowStock lists items at or below their minimum quantity
	FindLowStock(ctx context.Context) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete removes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountLowStock counts items at or below their minimum quantity
	CountLowStock(ctx context.Context) (int64, error)
}
