package integration

import (
	"context"
	"testing"
	"time"

	financeapp "github.com/mecanicpro/backend/internal/application/finance"
	partnerapp "github.com/mecanicpro/backend/internal/application/partner"
	workshopapp "github.com/mecanicpro/backend/internal/application/workshop"
	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/workshop"
	"github.com/mecanicpro/backend/internal/infrastructure/cache"
	"github.com/mecanicpro/backend/internal/infrastructure/event"
	"github.com/mecanicpro/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// workshopEnv wires the application services against a real database,
// the way cmd/server does minus the HTTP layer and the local mirror.
type workshopEnv struct {
	customers    *partnerapp.CustomerService
	orders       *workshopapp.ServiceOrderService
	payments     *workshopapp.PaymentService
	transactions *financeapp.TransactionService

	transactionRepo finance.TransactionRepository
}

func newWorkshopEnv(t *testing.T) *workshopEnv {
	t.Helper()

	testDB := NewTestDB(t)
	log := zap.NewNop()

	customerRepo := persistence.NewGormCustomerRepository(testDB.DB)
	orderRepo := persistence.NewGormServiceOrderRepository(testDB.DB)
	transactionRepo := persistence.NewGormTransactionRepository(testDB.DB)
	settingsRepo := persistence.NewGormSettingsRepository(testDB.DB)

	bus := event.NewInMemoryEventBus(log)
	idempotency := cache.NewInMemoryIdempotencyStore()

	return &workshopEnv{
		customers:       partnerapp.NewCustomerService(customerRepo, bus),
		orders:          workshopapp.NewServiceOrderService(orderRepo, customerRepo, settingsRepo, bus),
		payments:        workshopapp.NewPaymentService(orderRepo, transactionRepo, settingsRepo, idempotency, bus),
		transactions:    financeapp.NewTransactionService(transactionRepo, bus),
		transactionRepo: transactionRepo,
	}
}

func (e *workshopEnv) createOrderWithBudget(t *testing.T, ctx context.Context) *workshopapp.ServiceOrderResponse {
	t.Helper()

	customer, err := e.customers.Create(ctx, partnerapp.CreateCustomerRequest{
		Name: "João Silva",
		Vehicles: []partnerapp.CreateVehicleRequest{
			{Model: "Fiat Uno", Plate: "ABC1D23", Year: "2015"},
		},
	})
	require.NoError(t, err)
	require.Len(t, customer.Vehicles, 1)

	order, err := e.orders.Create(ctx, workshopapp.CreateServiceOrderRequest{
		CustomerID:  customer.ID,
		VehicleID:   customer.Vehicles[0].ID,
		Description: "Troca de óleo e revisão dos freios",
		Mileage:     "85000",
		Items: []workshopapp.BudgetLineInput{
			{Name: "Óleo 10W40", UnitPrice: 50, Quantity: 4},
			{Name: "Mão de obra", UnitPrice: 100, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func TestWorkshopFlow_SettleWithCash(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newWorkshopEnv(t)
	ctx := context.Background()

	order := env.createOrderWithBudget(t, ctx)
	assert.Equal(t, "01", order.Number)
	assert.Equal(t, workshop.StatusAwaitingApproval.String(), order.Status)
	assert.InDelta(t, 300.0, order.Total, 0.001)

	approved, err := env.orders.Approve(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, workshop.StatusInProgress.String(), approved.Status)

	settled, err := env.payments.Settle(ctx, order.ID, workshopapp.SettleRequest{
		Method: string(finance.MethodCash),
	})
	require.NoError(t, err)
	assert.Equal(t, workshop.StatusFinished.String(), settled.Order.Status)
	require.Len(t, settled.TransactionIDs, 1)

	tx, err := env.transactionRepo.FindByID(ctx, settled.TransactionIDs[0])
	require.NoError(t, err)
	assert.Equal(t, finance.TypeIncome, tx.Type)
	assert.Equal(t, finance.MethodCash, tx.Method)
	assert.InDelta(t, 300.0, tx.Amount.Float64(), 0.001)

	// Numbers stay sequential across orders
	second := env.createOrderWithBudget(t, ctx)
	assert.Equal(t, "02", second.Number)
}

func TestWorkshopFlow_SettleWithCheques(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newWorkshopEnv(t)
	ctx := context.Background()

	order := env.createOrderWithBudget(t, ctx)
	_, err := env.orders.Approve(ctx, order.ID)
	require.NoError(t, err)

	settled, err := env.payments.Settle(ctx, order.ID, workshopapp.SettleRequest{
		Method:      string(finance.MethodCheque),
		ChequeCount: 3,
	})
	require.NoError(t, err)
	require.Len(t, settled.TransactionIDs, 3)

	var total float64
	for _, id := range settled.TransactionIDs {
		tx, err := env.transactionRepo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, finance.ChequePending, tx.Status)
		total += tx.Amount.Float64()
	}
	assert.InDelta(t, 300.0, total, 0.001)
}

func TestWorkshopFlow_SettleIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newWorkshopEnv(t)
	ctx := context.Background()

	order := env.createOrderWithBudget(t, ctx)
	_, err := env.orders.Approve(ctx, order.ID)
	require.NoError(t, err)

	req := workshopapp.SettleRequest{
		Method:         string(finance.MethodPix),
		IdempotencyKey: "settle-once",
	}
	_, err = env.payments.Settle(ctx, order.ID, req)
	require.NoError(t, err)

	_, err = env.payments.Settle(ctx, order.ID, req)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_SETTLEMENT", domainErr.Code)
}

func TestWorkshopFlow_ChequeLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newWorkshopEnv(t)
	ctx := context.Background()

	order := env.createOrderWithBudget(t, ctx)
	_, err := env.orders.Approve(ctx, order.ID)
	require.NoError(t, err)

	settled, err := env.payments.Settle(ctx, order.ID, workshopapp.SettleRequest{
		Method:      string(finance.MethodCheque),
		ChequeCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, settled.TransactionIDs, 2)

	cleared, err := env.transactions.ClearCheque(ctx, settled.TransactionIDs[0])
	require.NoError(t, err)
	assert.Equal(t, string(finance.ChequeCleared), cleared.Status)

	bounced, err := env.transactions.BounceCheque(ctx, settled.TransactionIDs[1])
	require.NoError(t, err)
	assert.Equal(t, string(finance.ChequeBounced), bounced.Status)
}

func TestWorkshopFlow_ManualExpense(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newWorkshopEnv(t)
	ctx := context.Background()

	recorded, err := env.transactions.RecordExpense(ctx, financeapp.RecordExpenseRequest{
		Title:      "Aluguel",
		Amount:     1200,
		Category:   "RENT",
		Method:     string(finance.MethodPix),
		OccurredOn: time.Now(),
	})
	require.NoError(t, err)

	tx, err := env.transactionRepo.FindByID(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.TypeExpense, tx.Type)
	// Expenses are stored as negative amounts
	assert.InDelta(t, -1200.0, tx.Amount.Float64(), 0.001)
}
