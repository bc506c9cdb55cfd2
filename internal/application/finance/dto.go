package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/finance"
)

// Transaction DTOs

// RecordExpenseRequest registers money leaving the till
type RecordExpenseRequest struct {
	Title      string    `json:"title" binding:"required,min=1,max=200"`
	Subtitle   string    `json:"subtitle" binding:"max=200"`
	Amount     float64   `json:"amount" binding:"required"`
	Category   string    `json:"category" binding:"required,oneof=SERVICE PARTS RENT OTHER"`
	Method     string    `json:"method" binding:"required"`
	OccurredOn time.Time `json:"occurred_on"`
}

// RecordIncomeRequest registers money entering the till outside of a
// service-order settlement
type RecordIncomeRequest struct {
	Title      string    `json:"title" binding:"required,min=1,max=200"`
	Subtitle   string    `json:"subtitle" binding:"max=200"`
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Category   string    `json:"category" binding:"required,oneof=SERVICE PARTS RENT OTHER"`
	Method     string    `json:"method" binding:"required"`
	OccurredOn time.Time `json:"occurred_on"`
}

// TransactionResponse shapes a transaction for the API.
type TransactionResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Category   string    `json:"category"`
	Method     string    `json:"method"`
	Status     string    `json:"status,omitempty"`
	OccurredOn time.Time `json:"occurred_on"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TransactionListFilter carries the list query parameters.
type TransactionListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(tx *finance.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         tx.ID,
		Title:      tx.Title,
		Subtitle:   tx.Subtitle,
		Amount:     tx.Amount.Float64(),
		Type:       string(tx.Type),
		Category:   string(tx.Category),
		Method:     tx.Method.String(),
		Status:     string(tx.Status),
		OccurredOn: tx.OccurredOn,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(txs []finance.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, ToTransactionResponse(&txs[i]))
	}
	return responses
}

// Analytics DTOs

// AnalyticsRequest selects the inclusive analysis window
type AnalyticsRequest struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02"`
}

// TopService is one entry of the service revenue ranking
type TopService struct {
	Description string  `json:"description"`
	Count       int     `json:"count"`
	Revenue     float64 `json:"revenue"`
}

// AnalyticsResponse is the cash-flow picture for a date range
type AnalyticsResponse struct {
	Incomes           float64            `json:"incomes"`
	FutureIncomes     float64            `json:"future_incomes"`
	Expenses          float64            `json:"expenses"`
	Balance           float64            `json:"balance"`
	Methods           map[string]float64 `json:"methods"`
	TopServices       []TopService       `json:"top_services"`
	MaxServiceRevenue float64            `json:"max_service_revenue"`
}
