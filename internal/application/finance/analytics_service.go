package finance

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/mecanicpro/backend/internal/domain/workshop"
)

// topServiceLimit caps the service revenue ranking
const topServiceLimit = 4

// AnalyticsService computes the cash-flow picture for a date range.
// The aggregation itself is pure; only the data loading touches
// repositories.
type AnalyticsService struct {
	transactionRepo finance.TransactionRepository
	orderRepo       workshop.ServiceOrderRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(transactionRepo finance.TransactionRepository, orderRepo workshop.ServiceOrderRepository) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
	}
}

// Compute loads the window's transactions and finished orders and
// aggregates them
func (s *AnalyticsService) Compute(ctx context.Context, req AnalyticsRequest) (*AnalyticsResponse, error) {
	start, end := normalizeRange(req.Start, req.End)
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Range end cannot precede its start")
	}

	transactions, err := s.transactionRepo.FindBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindFinishedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	result := ComputeAnalytics(transactions, orders)
	return &result, nil
}

// normalizeRange widens the window to whole days, inclusive on both ends
func normalizeRange(start, end time.Time) (time.Time, time.Time) {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
	return s, e
}

// ComputeAnalytics aggregates transactions and finished orders into the
// cash-flow picture. Settled incomes and cleared cheques count as
// realized income; pending cheques are future income; bounced cheques
// count as neither. Expenses count by absolute value regardless of any
// cheque status. Method buckets cover every income independent of its
// clearance state.
func ComputeAnalytics(transactions []finance.Transaction, orders []workshop.ServiceOrder) AnalyticsResponse {
	incomes := valueobject.ZeroBRL()
	futureIncomes := valueobject.ZeroBRL()
	expenses := valueobject.ZeroBRL()
	methods := make(map[string]float64, len(finance.AllPaymentMethods()))
	for _, m := range finance.AllPaymentMethods() {
		methods[m.String()] = 0
	}

	for i := range transactions {
		tx := &transactions[i]

		if tx.Type == finance.TypeExpense {
			expenses = expenses.MustAdd(tx.Amount.Abs())
			continue
		}

		switch tx.Status {
		case finance.ChequePending:
			futureIncomes = futureIncomes.MustAdd(tx.Amount)
		case finance.ChequeBounced:
			// neither realized nor expected
		default:
			incomes = incomes.MustAdd(tx.Amount)
		}

		method := finance.NormalizePaymentMethod(tx.Method.String())
		methods[method.String()] += tx.Amount.Float64()
	}

	topServices := rankServices(orders)

	return AnalyticsResponse{
		Incomes:           incomes.Float64(),
		FutureIncomes:     futureIncomes.Float64(),
		Expenses:          expenses.Float64(),
		Balance:           incomes.MustSubtract(expenses).Float64(),
		Methods:           methods,
		TopServices:       topServices,
		MaxServiceRevenue: maxServiceRevenue(topServices),
	}
}

type serviceBucket struct {
	description string
	count       int
	revenue     valueobject.Money
}

// rankServices groups finished orders by their upper-cased description
// and returns the top earners. Orders without a description share the
// empty-string bucket.
func rankServices(orders []workshop.ServiceOrder) []TopService {
	buckets := make(map[string]*serviceBucket)
	for i := range orders {
		order := &orders[i]
		key := strings.ToUpper(strings.TrimSpace(order.Description))
		bucket, ok := buckets[key]
		if !ok {
			bucket = &serviceBucket{description: key, revenue: valueobject.ZeroBRL()}
			buckets[key] = bucket
		}
		bucket.count++
		bucket.revenue = bucket.revenue.MustAdd(order.Total())
	}

	ranked := make([]*serviceBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ranked = append(ranked, bucket)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].revenue.Equals(ranked[j].revenue) {
			greater, _ := ranked[i].revenue.GreaterThan(ranked[j].revenue)
			return greater
		}
		return ranked[i].description < ranked[j].description
	})

	if len(ranked) > topServiceLimit {
		ranked = ranked[:topServiceLimit]
	}

	top := make([]TopService, 0, len(ranked))
	for _, bucket := range ranked {
		top = append(top, TopService{
			Description: bucket.description,
			Count:       bucket.count,
			Revenue:     bucket.revenue.Float64(),
		})
	}
	return top
}

// maxServiceRevenue returns the largest ranked revenue, never below 1
// so chart scaling has a denominator
func maxServiceRevenue(top []TopService) float64 {
	max := 1.0
	for _, entry := range top {
		if entry.Revenue > max {
			max = entry.Revenue
		}
	}
	return max
}
