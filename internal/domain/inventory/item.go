package inventory

import (
	"strings"
	"time"

	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// Item is a part or consumable the workshop keeps on the shelf.
type Item struct {
	shared.BaseAggregateRoot
	Name        string
	Code        string
	Category    string
	CostPrice   valueobject.Money
	SalePrice   valueobject.Money
	Quantity    int
	MinQuantity int
	Location    string
	ImageURL    string
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "inventory_items"
}

// NewItem creates a new inventory item
func NewItem(name, code, category string, costPrice, salePrice valueobject.Money, quantity, minQuantity int, location, imageURL string) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if minQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_MIN_QUANTITY", "Minimum quantity cannot be negative")
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Category:          category,
		CostPrice:         costPrice,
		SalePrice:         salePrice,
		Quantity:          quantity,
		MinQuantity:       minQuantity,
		Location:          location,
		ImageURL:          imageURL,
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// Update updates the item's catalog information
func (i *Item) Update(name, code, category string, costPrice, salePrice valueobject.Money, minQuantity int, location, imageURL string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if minQuantity < 0 {
		return shared.NewDomainError("INVALID_MIN_QUANTITY", "Minimum quantity cannot be negative")
	}

	i.Name = strings.TrimSpace(name)
	i.Code = strings.ToUpper(strings.TrimSpace(code))
	i.Category = category
	i.CostPrice = costPrice
	i.SalePrice = salePrice
	i.MinQuantity = minQuantity
	i.Location = location
	i.ImageURL = imageURL
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// AdjustQuantity applies a positive or negative stock delta
func (i *Item) AdjustQuantity(delta int) error {
	next := i.Quantity + delta
	if next < 0 {
		return shared.ErrInsufficientStock
	}

	wasLow := i.IsLowStock()
	i.Quantity = next
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewItemLowStockEvent(i))
	}

	return nil
}

// SetQuantity replaces the stock count outright (stock taking)
func (i *Item) SetQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	wasLow := i.IsLowStock()
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewItemLowStockEvent(i))
	}

	return nil
}

// IsLowStock returns true when quantity is at or below the minimum
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}
