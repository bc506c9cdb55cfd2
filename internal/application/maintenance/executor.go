// Package maintenance runs the daily background tasks of the workshop:
// counter resets, cheque due reminders and low stock scans.
package maintenance

import (
	"context"
	"fmt"

	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// CounterResetter resets the daily workshop counters
type CounterResetter interface {
	ResetDailyCounters(ctx context.Context) error
}

// Executor implements scheduler.JobExecutor for maintenance tasks
type Executor struct {
	counters     CounterResetter
	transactions finance.TransactionRepository
	items        inventory.ItemRepository
	logger       *zap.Logger
}

// NewExecutor creates a maintenance executor
func NewExecutor(
	counters CounterResetter,
	transactions finance.TransactionRepository,
	items inventory.ItemRepository,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		counters:     counters,
		transactions: transactions,
		items:        items,
		logger:       logger,
	}
}

// Ensure Executor implements the scheduler contract
var _ scheduler.JobExecutor = (*Executor)(nil)

// Execute dispatches a job to the task it carries
func (e *Executor) Execute(ctx context.Context, job *scheduler.Job) error {
	switch job.TaskType {
	case scheduler.TaskDailyCounterReset:
		return e.resetDailyCounters(ctx)
	case scheduler.TaskChequeDueScan:
		return e.scanChequesDue(ctx, job)
	case scheduler.TaskLowStockScan:
		return e.scanLowStock(ctx)
	default:
		return fmt.Errorf("%w: %s", scheduler.ErrInvalidTaskType, job.TaskType)
	}
}

func (e *Executor) resetDailyCounters(ctx context.Context) error {
	if err := e.counters.ResetDailyCounters(ctx); err != nil {
		return fmt.Errorf("failed to reset daily counters: %w", err)
	}
	e.logger.Info("Daily counters reset")
	return nil
}

// scanChequesDue logs every pending cheque due on the job's reference
// day so operators get a reminder before it bounces silently
func (e *Executor) scanChequesDue(ctx context.Context, job *scheduler.Job) error {
	cheques, err := e.transactions.FindPendingChequesDueOn(ctx, job.ReferenceAt)
	if err != nil {
		return fmt.Errorf("failed to scan cheques due: %w", err)
	}

	if len(cheques) == 0 {
		e.logger.Info("No cheques due today")
		return nil
	}

	for _, cheque := range cheques {
		e.logger.Warn("Cheque due today",
			zap.String("transaction_id", cheque.GetID().String()),
			zap.String("title", cheque.Title),
			zap.String("amount", cheque.Amount.String()),
		)
	}
	e.logger.Info("Cheque due scan finished", zap.Int("due_count", len(cheques)))
	return nil
}

// scanLowStock logs items at or below their minimum quantity
func (e *Executor) scanLowStock(ctx context.Context) error {
	items, err := e.items.FindLowStock(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan low stock: %w", err)
	}

	if len(items) == 0 {
		e.logger.Info("No items below minimum stock")
		return nil
	}

	for _, item := range items {
		e.logger.Warn("Item below minimum stock",
			zap.String("item_id", item.GetID().String()),
			zap.String("name", item.Name),
			zap.String("code", item.Code),
			zap.Int("quantity", item.Quantity),
			zap.Int("min_quantity", item.MinQuantity),
		)
	}
	e.logger.Info("Low stock scan finished", zap.Int("low_stock_count", len(items)))
	return nil
}
