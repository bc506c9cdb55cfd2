package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// TransactionService records cash movements made outside of order
// settlement and drives the cheque clearance lifecycle.
type TransactionService struct {
	transactionRepo finance.TransactionRepository
	eventBus        shared.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo finance.TransactionRepository, eventBus shared.EventPublisher) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		eventBus:        eventBus,
	}
}

// RecordExpense registers an expense. The stored amount is always
// negative regardless of the sign supplied.
func (s *TransactionService) RecordExpense(ctx context.Context, req RecordExpenseRequest) (*TransactionResponse, error) {
	method := finance.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method: "+req.Method)
	}

	occurredOn := req.OccurredOn
	if occurredOn.IsZero() {
		occurredOn = time.Now()
	}

	tx, err := finance.NewExpense(req.Title, req.Subtitle, valueobject.NewMoneyBRLFromFloat(req.Amount),
		finance.TransactionCategory(req.Category), method, occurredOn)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// RecordIncome registers an income that is not tied to a service order,
// such as the sale of a loose part.
func (s *TransactionService) RecordIncome(ctx context.Context, req RecordIncomeRequest) (*TransactionResponse, error) {
	method := finance.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method: "+req.Method)
	}

	occurredOn := req.OccurredOn
	if occurredOn.IsZero() {
		occurredOn = time.Now()
	}

	tx, err := finance.NewIncome(req.Title, req.Subtitle, valueobject.NewMoneyBRLFromFloat(req.Amount),
		finance.TransactionCategory(req.Category), method, occurredOn)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// GetByID retrieves a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	txs, err := s.transactionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(txs), total, nil
}

// ClearCheque settles a pending cheque
func (s *TransactionService) ClearCheque(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.MarkCleared(); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// BounceCheque records a bounced cheque
func (s *TransactionService) BounceCheque(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.MarkBounced(); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Delete removes a transaction
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.transactionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.transactionRepo.Delete(ctx, id)
}

func (s *TransactionService) publishEvents(ctx context.Context, tx *finance.Transaction) {
	for _, event := range tx.GetDomainEvents() {
		s.eventBus.Publish(ctx, event)
	}
	tx.ClearDomainEvents()
}
