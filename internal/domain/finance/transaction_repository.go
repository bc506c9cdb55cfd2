package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll lists transactions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Transaction, error)

	// FindBetween lists transactions with an occurrence date in the
	// inclusive range, newest first
	FindBetween(ctx context.Context, start, end time.Time) ([]Transaction, error)

	// FindPendingChequesDueOn lists pending cheques due on the given day
	FindPendingChequesDueOn(ctx context.Context, day time.Time) ([]Transaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
