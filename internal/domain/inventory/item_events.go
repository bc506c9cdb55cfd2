package inventory

import (
	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeItem = "InventoryItem"

// Event type constants
const (
	EventTypeItemCreated  = "InventoryItemCreated"
	EventTypeItemLowStock = "InventoryItemLowStock"
)

// ItemCreatedEvent is published when a new item is registered
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
	Code   string    `json:"code,omitempty"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Code:            item.Code,
	}
}

// ItemLowStockEvent is published when stock falls to or below the minimum
type ItemLowStockEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID `json:"item_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
}

// NewItemLowStockEvent creates a new ItemLowStockEvent
func NewItemLowStockEvent(item *Item) *ItemLowStockEvent {
	return &ItemLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemLowStock, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		MinQuantity:     item.MinQuantity,
	}
}
