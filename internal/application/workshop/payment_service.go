package workshop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/mecanicpro/backend/internal/domain/workshop"
	"github.com/mecanicpro/backend/internal/infrastructure/telemetry"
)

// chequeTolerance is the smallest cheque-sum deviation that triggers
// the confirmation requirement
var chequeTolerance = valueobject.NewMoneyBRLFromFloat(0.01)

// settleIdempotencyTTL bounds how long a settlement key blocks retries
const settleIdempotencyTTL = 24 * time.Hour

// PaymentService settles service orders: it emits the financial
// transactions, stamps the finish date, and bumps the daily counter.
type PaymentService struct {
	orderRepo       workshop.ServiceOrderRepository
	transactionRepo finance.TransactionRepository
	settingsRepo    settings.Repository
	idempotency     shared.IdempotencyStore
	eventBus        shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// SetBusinessMetrics sets the business metrics collector
func (s *PaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	orderRepo workshop.ServiceOrderRepository,
	transactionRepo finance.TransactionRepository,
	settingsRepo settings.Repository,
	idempotency shared.IdempotencyStore,
	eventBus shared.EventPublisher,
) *PaymentService {
	return &PaymentService{
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
		idempotency:     idempotency,
		eventBus:        eventBus,
	}
}

// Settle finishes an order and records its payment. Non-cheque methods
// emit a single settled income for the order total. Cheque payments
// emit one pending income per cheque; values default to an equal split
// of the total and due dates to one month per cheque index. A cheque
// sum that strays from the order total by a cent or more is rejected
// until the caller confirms it.
func (s *PaymentService) Settle(ctx context.Context, orderID uuid.UUID, req SettleRequest) (*SettleResponse, error) {
	if req.IdempotencyKey != "" && s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, "settle:"+req.IdempotencyKey, settleIdempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_SETTLEMENT", "This settlement was already processed")
		}
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	method := finance.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method: %s", req.Method))
	}

	// A discount above the subtotal yields a negative total; the
	// settlement still emits exactly one entry carrying that value.
	total := order.Total()

	now := time.Now()
	title := fmt.Sprintf("Serviço: %s (%s)", order.Vehicle, order.CustomerName)

	var transactions []*finance.Transaction
	if method == finance.MethodCheque {
		transactions, err = s.buildChequeTransactions(title, total, req, now)
	} else {
		transactions, err = s.buildDirectTransaction(title, total, method, now)
	}
	if err != nil {
		return nil, err
	}

	if err := order.MarkFinished(now); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		if err := s.transactionRepo.Save(ctx, tx); err != nil {
			return nil, err
		}
		ids = append(ids, tx.ID)
		s.publishTransactionEvents(ctx, tx)
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg.RegisterFinished(now)
	if err := s.settingsRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderSettled(ctx, total.Amount())
		s.businessMetrics.RecordPayment(ctx, method.String(), telemetry.PaymentOutcomeSettled)
	}
	s.publishOrderEvents(ctx, order)

	return &SettleResponse{
		Order:          ToServiceOrderResponse(order),
		TransactionIDs: ids,
	}, nil
}

func (s *PaymentService) buildDirectTransaction(title string, total valueobject.Money, method finance.PaymentMethod, now time.Time) ([]*finance.Transaction, error) {
	tx, err := finance.NewSettlementIncome(title, method.String(), total, method, now)
	if err != nil {
		return nil, err
	}
	return []*finance.Transaction{tx}, nil
}

func (s *PaymentService) buildChequeTransactions(title string, total valueobject.Money, req SettleRequest, now time.Time) ([]*finance.Transaction, error) {
	count := req.ChequeCount
	if count == 0 {
		count = len(req.Cheques)
	}
	if count == 0 {
		count = 1
	}
	if len(req.Cheques) > 0 && len(req.Cheques) != count {
		return nil, shared.NewDomainError("INVALID_CHEQUES", "Cheque list does not match the cheque count")
	}

	defaults, err := total.Allocate(count)
	if err != nil {
		return nil, err
	}

	values := make([]valueobject.Money, count)
	dueDates := make([]time.Time, count)
	for i := 0; i < count; i++ {
		values[i] = defaults[i]
		dueDates[i] = now.AddDate(0, i+1, 0)

		if len(req.Cheques) > 0 {
			if req.Cheques[i].Value != nil {
				values[i] = valueobject.NewMoneyBRLFromFloat(*req.Cheques[i].Value)
			}
			if req.Cheques[i].DueDate != nil {
				dueDates[i] = *req.Cheques[i].DueDate
			}
		}
	}

	sum := valueobject.ZeroBRL()
	for _, v := range values {
		sum = sum.MustAdd(v)
	}
	diff := sum.MustSubtract(total).Abs()
	if mismatch, _ := diff.GreaterThan(chequeTolerance); (mismatch || diff.Equals(chequeTolerance)) && !req.ConfirmedTotal {
		return nil, shared.NewDomainError("CHEQUE_TOTAL_MISMATCH",
			fmt.Sprintf("Cheque values sum to %s but the order total is %s", sum.StringFixed(2), total.StringFixed(2)))
	}

	transactions := make([]*finance.Transaction, 0, count)
	for i := 0; i < count; i++ {
		subtitle := fmt.Sprintf("Cheque %d/%d", i+1, count)
		tx, err := finance.NewSettlementIncome(title, subtitle, values[i], finance.MethodCheque, dueDates[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (s *PaymentService) publishOrderEvents(ctx context.Context, order *workshop.ServiceOrder) {
	for _, event := range order.GetDomainEvents() {
		s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}

func (s *PaymentService) publishTransactionEvents(ctx context.Context, tx *finance.Transaction) {
	for _, event := range tx.GetDomainEvents() {
		s.eventBus.Publish(ctx, event)
	}
	tx.ClearDomainEvents()
}
