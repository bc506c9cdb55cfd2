package workshop

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// ServiceOrderRepository defines the interface for service order
// persistence. Active orders and history share a table, split by the
// finished status.
type ServiceOrderRepository interface {
	// FindByID finds an order by ID, budget items included
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceOrder, error)

	// FindByNumber finds an order by its human-facing number
	FindByNumber(ctx context.Context, number string) (*ServiceOrder, error)

	// FindActive lists orders that are not yet finished
	FindActive(ctx context.Context, filter shared.Filter) ([]ServiceOrder, error)

	// FindHistory lists finished orders
	FindHistory(ctx context.Context, filter shared.Filter) ([]ServiceOrder, error)

	// FindFinishedBetween lists finished orders with a finish date in
	// the inclusive range
	FindFinishedBetween(ctx context.Context, start, end time.Time) ([]ServiceOrder, error)

	// Save creates or updates an order together with its budget items
	Save(ctx context.Context, order *ServiceOrder) error

	// Delete removes an order from whichever collection holds it.
	// Transactions already emitted are not touched.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountActive counts orders not yet finished
	CountActive(ctx context.Context) (int64, error)

	// CountFinishedOn counts orders finished on the given day
	CountFinishedOn(ctx context.Context, day time.Time) (int64, error)
}
