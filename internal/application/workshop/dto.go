package workshop

import (
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/workshop"
)

// Service order DTOs

// CreateServiceOrderRequest opens an order for a vehicle already on file.
type CreateServiceOrderRequest struct {
	CustomerID  uuid.UUID          `json:"customer_id" binding:"required"`
	VehicleID   uuid.UUID          `json:"vehicle_id" binding:"required"`
	Description string             `json:"description" binding:"required,min=1"`
	Mileage     string             `json:"mileage" binding:"required,max=20"`
	ImageURL    string             `json:"image_url" binding:"max=2000"`
	Items       []BudgetLineInput  `json:"items" binding:"omitempty,dive"`
	Discount    float64            `json:"discount" binding:"omitempty,min=0"`
}

// BudgetLineInput is a budget line in create/update requests
type BudgetLineInput struct {
	Name      string  `json:"name" binding:"required,min=1,max=200"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	Quantity  int     `json:"quantity" binding:"min=0"`
}

// UpdateBudgetRequest replaces the budget items and discount
type UpdateBudgetRequest struct {
	Items    []BudgetLineInput `json:"items" binding:"required,dive"`
	Discount float64           `json:"discount" binding:"omitempty,min=0"`
}

// UpdateExecutionRequest records execution notes and a status move
type UpdateExecutionRequest struct {
	Notes  string `json:"notes"`
	Status string `json:"status" binding:"required"`
}

// BudgetItemResponse shapes one budget line for the API.
type BudgetItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"line_total"`
}

// ServiceOrderResponse shapes an order, with its budget, for the API.
type ServiceOrderResponse struct {
	ID             uuid.UUID            `json:"id"`
	Number         string               `json:"number"`
	CustomerID     uuid.UUID            `json:"customer_id"`
	CustomerName   string               `json:"customer_name"`
	Vehicle        string               `json:"vehicle"`
	Plate          string               `json:"plate"`
	Description    string               `json:"description"`
	ExecutionNotes string               `json:"execution_notes"`
	Status         string               `json:"status"`
	Items          []BudgetItemResponse `json:"items"`
	Subtotal       float64              `json:"subtotal"`
	Discount       float64              `json:"discount"`
	Total          float64              `json:"total"`
	Mileage        string               `json:"mileage"`
	ImageURL       string               `json:"image_url"`
	FinishedAt     *time.Time           `json:"finished_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Version        int                  `json:"version"`
}

// ServiceOrderListFilter carries the list query parameters.
type ServiceOrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Settlement DTOs

// ChequeInput describes one cheque of a split settlement. Value and
// DueDate are optional; defaults are the equal split and today plus the
// cheque's one-based index in months.
type ChequeInput struct {
	Value   *float64   `json:"value" binding:"omitempty,gt=0"`
	DueDate *time.Time `json:"due_date"`
}

// SettleRequest settles a service order's payment
type SettleRequest struct {
	Method         string        `json:"method" binding:"required"`
	ChequeCount    int           `json:"cheque_count" binding:"omitempty,min=1,max=36"`
	Cheques        []ChequeInput `json:"cheques" binding:"omitempty,dive"`
	ConfirmedTotal bool          `json:"confirmed_total"`
	IdempotencyKey string        `json:"idempotency_key"`
}

// SettleResponse reports the settlement outcome
type SettleResponse struct {
	Order          ServiceOrderResponse `json:"order"`
	TransactionIDs []uuid.UUID          `json:"transaction_ids"`
}

// ToServiceOrderResponse converts a domain order to a response DTO
func ToServiceOrderResponse(o *workshop.ServiceOrder) ServiceOrderResponse {
	items := make([]BudgetItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, BudgetItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Float64(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().Float64(),
		})
	}

	return ServiceOrderResponse{
		ID:             o.ID,
		Number:         o.Number,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		Vehicle:        o.Vehicle,
		Plate:          o.Plate,
		Description:    o.Description,
		ExecutionNotes: o.ExecutionNotes,
		Status:         o.Status.String(),
		Items:          items,
		Subtotal:       o.Subtotal().Float64(),
		Discount:       o.Discount.Float64(),
		Total:          o.Total().Float64(),
		Mileage:        o.Mileage,
		ImageURL:       o.ImageURL,
		FinishedAt:     o.FinishedAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
}

// ToServiceOrderResponses converts a slice of domain orders
func ToServiceOrderResponses(orders []workshop.ServiceOrder) []ServiceOrderResponse {
	responses := make([]ServiceOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToServiceOrderResponse(&orders[i]))
	}
	return responses
}
