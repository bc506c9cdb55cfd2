package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/inventory"
)

// Inventory DTOs

// CreateItemRequest registers a new stock item
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Code        string  `json:"code" binding:"max=50"`
	Category    string  `json:"category" binding:"max=100"`
	CostPrice   float64 `json:"cost_price" binding:"min=0"`
	SalePrice   float64 `json:"sale_price" binding:"min=0"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	MinQuantity int     `json:"min_quantity" binding:"min=0"`
	Location    string  `json:"location" binding:"max=100"`
	ImageURL    string  `json:"image_url" binding:"max=2000"`
}

// UpdateItemRequest updates an item's catalog information
type UpdateItemRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Code        string  `json:"code" binding:"max=50"`
	Category    string  `json:"category" binding:"max=100"`
	CostPrice   float64 `json:"cost_price" binding:"min=0"`
	SalePrice   float64 `json:"sale_price" binding:"min=0"`
	MinQuantity int     `json:"min_quantity" binding:"min=0"`
	Location    string  `json:"location" binding:"max=100"`
	ImageURL    string  `json:"image_url" binding:"max=2000"`
}

// AdjustQuantityRequest applies a stock delta
type AdjustQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// SetQuantityRequest replaces the stock count
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ItemResponse shapes an inventory item for the API.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Category    string    `json:"category"`
	CostPrice   float64   `json:"cost_price"`
	SalePrice   float64   `json:"sale_price"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	LowStock    bool      `json:"low_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ItemListFilter carries the list query parameters.
type ItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Code:        item.Code,
		Category:    item.Category,
		CostPrice:   item.CostPrice.Float64(),
		SalePrice:   item.SalePrice.Float64(),
		Quantity:    item.Quantity,
		MinQuantity: item.MinQuantity,
		Location:    item.Location,
		ImageURL:    item.ImageURL,
		LowStock:    item.IsLowStock(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		Version:     item.Version,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToItemResponse(&items[i]))
	}
	return responses
}
