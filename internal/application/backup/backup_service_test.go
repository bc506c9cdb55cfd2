package backup

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/workshop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportOrder(t *testing.T) {
	customerIDs := map[string]uuid.UUID{"legacy-1": uuid.New()}

	t.Run("active order keeps its status and budget", func(t *testing.T) {
		doc := &ServiceDoc{
			ID:           "svc-1",
			Number:       "7",
			CustomerID:   "legacy-1",
			CustomerName: "João Silva",
			Vehicle:      "2019 Gol",
			Plate:        "ABC-1234",
			Description:  "Troca de óleo",
			Status:       "EM ANDAMENTO",
			BudgetItems: []BudgetItemDoc{
				{Name: "Óleo", UnitPrice: 50, Quantity: 2},
			},
			Discount: 10,
			Mileage:  "85000",
			IsoDate:  "2026-03-01T10:00:00Z",
		}

		order := importOrder(doc, customerIDs, false)

		assert.Equal(t, "07", order.Number)
		assert.Equal(t, customerIDs["legacy-1"], order.CustomerID)
		assert.Equal(t, workshop.StatusInProgress, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "90.00", order.Total().StringFixed(2))
		assert.Equal(t, 2026, order.CreatedAt.Year())
		assert.Nil(t, order.FinishedAt)
	})

	t.Run("history rows become finished regardless of status", func(t *testing.T) {
		doc := &ServiceDoc{
			Number:       "3",
			CustomerName: "João",
			Vehicle:      "Gol",
			Status:       "EM ANDAMENTO",
			FinishedDate: "2026-02-20T15:00:00Z",
		}

		order := importOrder(doc, customerIDs, true)

		assert.Equal(t, workshop.StatusFinished, order.Status)
		require.NotNil(t, order.FinishedAt)
		assert.Equal(t, time.February, order.FinishedAt.Month())
	})

	t.Run("unknown status falls back by collection", func(t *testing.T) {
		doc := &ServiceDoc{Number: "9", Status: "???"}

		assert.Equal(t, workshop.StatusAwaitingApproval, importOrder(doc, customerIDs, false).Status)
		assert.Equal(t, workshop.StatusFinished, importOrder(doc, customerIDs, true).Status)
	})
}

func TestImportTransaction(t *testing.T) {
	t.Run("legacy free-text method is normalized", func(t *testing.T) {
		doc := &TransactionDoc{
			Title:   "Serviço: Gol (João)",
			Amount:  120,
			Type:    "INCOME",
			Method:  "cartao credito",
			IsoDate: "2026-03-01T10:00:00Z",
		}

		tx := importTransaction(doc)

		assert.Equal(t, finance.MethodCreditCard, tx.Method)
		assert.Equal(t, finance.ChequeStatus(""), tx.Status)
		assert.Equal(t, finance.CategoryOther, tx.Category)
	})

	t.Run("cheque without status imports as cleared", func(t *testing.T) {
		doc := &TransactionDoc{Title: "Serviço", Amount: 60, Type: "INCOME", Method: "Cheque"}

		tx := importTransaction(doc)

		assert.Equal(t, finance.ChequeCleared, tx.Status)
	})

	t.Run("pending cheque keeps its due date", func(t *testing.T) {
		doc := &TransactionDoc{
			Title: "Serviço", Amount: 60, Type: "INCOME",
			Method: "Cheque", Status: "PENDING", IsoDate: "2026-06-10T00:00:00Z",
		}

		tx := importTransaction(doc)

		assert.True(t, tx.IsPendingCheque())
		assert.Equal(t, time.June, tx.OccurredOn.Month())
	})

	t.Run("missing type is inferred from the sign", func(t *testing.T) {
		assert.Equal(t, finance.TypeExpense, importTransaction(&TransactionDoc{Title: "Aluguel", Amount: -500, Method: "PIX"}).Type)
		assert.Equal(t, finance.TypeIncome, importTransaction(&TransactionDoc{Title: "Venda", Amount: 500, Method: "PIX"}).Type)
	})
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "07", normalizeNumber("7"))
	assert.Equal(t, "120", normalizeNumber("120"))
	assert.Equal(t, "OS-7", normalizeNumber("OS-7"))
	assert.Equal(t, "", normalizeNumber(""))
}

func TestParseISODate(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ts := parseISODate("2026-03-15T10:30:00Z", fallback)
	assert.Equal(t, 15, ts.Day())

	ts = parseISODate("2026-03-15", fallback)
	assert.Equal(t, time.March, ts.Month())

	assert.Equal(t, fallback, parseISODate("not-a-date", fallback))
	assert.Equal(t, fallback, parseISODate("", fallback))
}
