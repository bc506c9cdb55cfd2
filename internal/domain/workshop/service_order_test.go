package workshop

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *ServiceOrder {
	t.Helper()
	order, err := NewServiceOrder(7, uuid.New(), "João Silva", "2018 Gol 1.6", "ABC-1234", "Troca de óleo e revisão", "85000", "")
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestServiceStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    ServiceStatus
		to      ServiceStatus
		allowed bool
	}{
		{"approval to in progress", StatusAwaitingApproval, StatusInProgress, true},
		{"approval cannot skip to finished", StatusAwaitingApproval, StatusFinished, false},
		{"approval cannot jump to parts", StatusAwaitingApproval, StatusAwaitingParts, false},
		{"in progress to awaiting parts", StatusInProgress, StatusAwaitingParts, true},
		{"in progress to diagnostics", StatusInProgress, StatusDiagnostics, true},
		{"in progress to other", StatusInProgress, StatusOther, true},
		{"in progress to finished", StatusInProgress, StatusFinished, true},
		{"diagnostics back to in progress", StatusDiagnostics, StatusInProgress, true},
		{"awaiting parts to finished", StatusAwaitingParts, StatusFinished, true},
		{"no return to approval from in progress", StatusInProgress, StatusAwaitingApproval, false},
		{"no return to approval from diagnostics", StatusDiagnostics, StatusAwaitingApproval, false},
		{"finished is terminal", StatusFinished, StatusInProgress, false},
		{"finished cannot re-finish", StatusFinished, StatusFinished, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestServiceStatusIsValid(t *testing.T) {
	for _, s := range []ServiceStatus{StatusAwaitingApproval, StatusInProgress, StatusAwaitingParts, StatusDiagnostics, StatusOther, StatusFinished} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, ServiceStatus("CANCELADO").IsValid())
}

func TestNewServiceOrder(t *testing.T) {
	t.Run("creates order awaiting approval", func(t *testing.T) {
		order, err := NewServiceOrder(1, uuid.New(), "Maria", "2020 Civic", "xyz-9876", "Freios", "40000", "")

		require.NoError(t, err)
		assert.Equal(t, "01", order.Number)
		assert.Equal(t, StatusAwaitingApproval, order.Status)
		assert.Equal(t, "XYZ-9876", order.Plate)
		assert.Empty(t, order.Items)
		assert.True(t, order.Discount.IsZero())
		assert.Nil(t, order.FinishedAt)
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("zero pads the order number", func(t *testing.T) {
		order, err := NewServiceOrder(123, uuid.New(), "Maria", "Civic", "XYZ-9876", "Freios", "40000", "")
		require.NoError(t, err)
		assert.Equal(t, "123", order.Number)
	})

	t.Run("validates required fields", func(t *testing.T) {
		customerID := uuid.New()
		cases := []struct {
			name     string
			customer string
			vehicle  string
			plate    string
			desc     string
			mileage  string
		}{
			{"missing customer name", "", "Civic", "XYZ-1", "Freios", "40000"},
			{"missing vehicle", "Maria", "", "XYZ-1", "Freios", "40000"},
			{"missing plate", "Maria", "Civic", "", "Freios", "40000"},
			{"missing description", "Maria", "Civic", "XYZ-1", "", "40000"},
			{"missing mileage", "Maria", "Civic", "XYZ-1", "Freios", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewServiceOrder(1, customerID, tc.customer, tc.vehicle, tc.plate, tc.desc, tc.mileage, "")
				assert.Error(t, err)
			})
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("replaces items and discount", func(t *testing.T) {
		order := newTestOrder(t)
		lines := []BudgetLine{
			{Name: "Óleo 5W30", UnitPrice: valueobject.NewMoneyBRLFromFloat(50), Quantity: 2},
			{Name: "Filtro", UnitPrice: valueobject.NewMoneyBRLFromFloat(30), Quantity: 1},
		}

		err := order.UpdateBudget(lines, valueobject.NewMoneyBRLFromFloat(10))
		require.NoError(t, err)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, "120.00", order.Total().StringFixed(2))
	})

	t.Run("discount may exceed subtotal", func(t *testing.T) {
		order := newTestOrder(t)
		lines := []BudgetLine{{Name: "Peça", UnitPrice: valueobject.NewMoneyBRLFromFloat(40), Quantity: 1}}

		err := order.UpdateBudget(lines, valueobject.NewMoneyBRLFromFloat(100))
		require.NoError(t, err)
		assert.True(t, order.Total().IsNegative())
		assert.Equal(t, "-60.00", order.Total().StringFixed(2))
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.UpdateBudget(nil, valueobject.NewMoneyBRLFromFloat(-1))
		assert.Error(t, err)
	})

	t.Run("rejects invalid line", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.UpdateBudget([]BudgetLine{{Name: "", UnitPrice: valueobject.ZeroBRL(), Quantity: 1}}, valueobject.ZeroBRL())
		assert.Error(t, err)
	})

	t.Run("rejects budget change on finished order", func(t *testing.T) {
		order := settledOrder(t)
		err := order.UpdateBudget(nil, valueobject.ZeroBRL())
		assert.Error(t, err)
	})
}

func TestComputeTotal(t *testing.T) {
	t.Run("nil order totals zero", func(t *testing.T) {
		var order *ServiceOrder
		assert.True(t, order.Total().IsZero())
	})

	t.Run("empty budget totals zero", func(t *testing.T) {
		order := newTestOrder(t)
		assert.True(t, order.Total().IsZero())
	})

	t.Run("sums line totals minus discount", func(t *testing.T) {
		order := newTestOrder(t)
		lines := []BudgetLine{
			{Name: "Óleo", UnitPrice: valueobject.NewMoneyBRLFromFloat(50), Quantity: 2},
			{Name: "Filtro", UnitPrice: valueobject.NewMoneyBRLFromFloat(30), Quantity: 1},
		}
		require.NoError(t, order.UpdateBudget(lines, valueobject.NewMoneyBRLFromFloat(10)))
		assert.Equal(t, "130.00", order.Subtotal().StringFixed(2))
		assert.Equal(t, "120.00", order.Total().StringFixed(2))
	})

	t.Run("zero quantity line contributes nothing", func(t *testing.T) {
		order := newTestOrder(t)
		lines := []BudgetLine{{Name: "Item", UnitPrice: valueobject.NewMoneyBRLFromFloat(99), Quantity: 0}}
		require.NoError(t, order.UpdateBudget(lines, valueobject.ZeroBRL()))
		assert.True(t, order.Total().IsZero())
	})
}

func TestApprove(t *testing.T) {
	t.Run("approves order with budget", func(t *testing.T) {
		order := newTestOrder(t)
		lines := []BudgetLine{{Name: "Óleo", UnitPrice: valueobject.NewMoneyBRLFromFloat(50), Quantity: 1}}
		require.NoError(t, order.UpdateBudget(lines, valueobject.ZeroBRL()))

		err := order.Approve()
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, order.Status)
	})

	t.Run("rejects approval without budget items", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.Approve()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "budget")
	})

	t.Run("rejects approval in wrong status", func(t *testing.T) {
		order := approvedOrder(t)
		err := order.Approve()
		assert.Error(t, err)
	})
}

func TestUpdateExecution(t *testing.T) {
	t.Run("moves between execution statuses", func(t *testing.T) {
		order := approvedOrder(t)

		require.NoError(t, order.UpdateExecution("aguardando peça do fornecedor", StatusAwaitingParts))
		assert.Equal(t, StatusAwaitingParts, order.Status)

		require.NoError(t, order.UpdateExecution("peça chegou", StatusInProgress))
		assert.Equal(t, StatusInProgress, order.Status)
	})

	t.Run("keeps status when unchanged", func(t *testing.T) {
		order := approvedOrder(t)
		require.NoError(t, order.UpdateExecution("em andamento", StatusInProgress))
		assert.Equal(t, StatusInProgress, order.Status)
	})

	t.Run("cannot return to awaiting approval", func(t *testing.T) {
		order := approvedOrder(t)
		err := order.UpdateExecution("", StatusAwaitingApproval)
		assert.Error(t, err)
	})

	t.Run("cannot finish through execution update", func(t *testing.T) {
		order := approvedOrder(t)
		err := order.UpdateExecution("", StatusFinished)
		assert.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		order := approvedOrder(t)
		err := order.UpdateExecution("", ServiceStatus("CANCELADO"))
		assert.Error(t, err)
	})
}

func TestMarkFinished(t *testing.T) {
	t.Run("stamps finish date and status", func(t *testing.T) {
		order := approvedOrder(t)
		finishedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

		require.NoError(t, order.MarkFinished(finishedAt))
		assert.Equal(t, StatusFinished, order.Status)
		require.NotNil(t, order.FinishedAt)
		assert.Equal(t, finishedAt, *order.FinishedAt)
		assert.True(t, order.IsFinished())
	})

	t.Run("cannot finish before approval", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.MarkFinished(time.Now())
		assert.Error(t, err)
	})

	t.Run("cannot finish twice", func(t *testing.T) {
		order := settledOrder(t)
		err := order.MarkFinished(time.Now())
		assert.Error(t, err)
	})
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "01", FormatOrderNumber(1))
	assert.Equal(t, "42", FormatOrderNumber(42))
	assert.Equal(t, "100", FormatOrderNumber(100))
}

func approvedOrder(t *testing.T) *ServiceOrder {
	t.Helper()
	order := newTestOrder(t)
	lines := []BudgetLine{{Name: "Serviço", UnitPrice: valueobject.NewMoneyBRLFromFloat(120), Quantity: 1}}
	require.NoError(t, order.UpdateBudget(lines, valueobject.ZeroBRL()))
	require.NoError(t, order.Approve())
	order.ClearDomainEvents()
	return order
}

func settledOrder(t *testing.T) *ServiceOrder {
	t.Helper()
	order := approvedOrder(t)
	require.NoError(t, order.MarkFinished(time.Now()))
	order.ClearDomainEvents()
	return order
}
