package workshop

import (
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeServiceOrder = "ServiceOrder"

// Event type constants
const (
	EventTypeServiceOrderCreated  = "ServiceOrderCreated"
	EventTypeBudgetUpdated        = "ServiceOrderBudgetUpdated"
	EventTypeServiceOrderApproved = "ServiceOrderApproved"
	EventTypeExecutionUpdated     = "ServiceOrderExecutionUpdated"
	EventTypeServiceOrderSettled  = "ServiceOrderSettled"
	EventTypeServiceOrderDeleted  = "ServiceOrderDeleted"
)

// ServiceOrderCreatedEvent is published when a new service order is created
type ServiceOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customer_name"`
	Plate        string    `json:"plate"`
}

// NewServiceOrderCreatedEvent creates a new ServiceOrderCreatedEvent
func NewServiceOrderCreatedEvent(order *ServiceOrder) *ServiceOrderCreatedEvent {
	return &ServiceOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderCreated, AggregateTypeServiceOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		CustomerName:    order.CustomerName,
		Plate:           order.Plate,
	}
}

// BudgetUpdatedEvent is published when the budget is revised
type BudgetUpdatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	Number    string    `json:"number"`
	ItemCount int       `json:"item_count"`
	Total     string    `json:"total"`
}

// NewBudgetUpdatedEvent creates a new BudgetUpdatedEvent
func NewBudgetUpdatedEvent(order *ServiceOrder) *BudgetUpdatedEvent {
	return &BudgetUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetUpdated, AggregateTypeServiceOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		ItemCount:       len(order.Items),
		Total:           order.Total().StringFixed(2),
	}
}

// ServiceOrderApprovedEvent is published when the customer approves the budget
type ServiceOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  string    `json:"number"`
	Total   string    `json:"total"`
}

// NewServiceOrderApprovedEvent creates a new ServiceOrderApprovedEvent
func NewServiceOrderApprovedEvent(order *ServiceOrder) *ServiceOrderApprovedEvent {
	return &ServiceOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderApproved, AggregateTypeServiceOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		Total:           order.Total().StringFixed(2),
	}
}

// ExecutionUpdatedEvent is published when the order moves between execution statuses
type ExecutionUpdatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID     `json:"order_id"`
	Number    string        `json:"number"`
	OldStatus ServiceStatus `json:"old_status"`
	NewStatus ServiceStatus `json:"new_status"`
}

// NewExecutionUpdatedEvent creates a new ExecutionUpdatedEvent
func NewExecutionUpdatedEvent(order *ServiceOrder, oldStatus ServiceStatus) *ExecutionUpdatedEvent {
	return &ExecutionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExecutionUpdated, AggregateTypeServiceOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		OldStatus:       oldStatus,
		NewStatus:       order.Status,
	}
}

// ServiceOrderSettledEvent is published when payment settles the order
type ServiceOrderSettledEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	Number     string    `json:"number"`
	Total      string    `json:"total"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewServiceOrderSettledEvent creates a new ServiceOrderSettledEvent
func NewServiceOrderSettledEvent(order *ServiceOrder) *ServiceOrderSettledEvent {
	finishedAt := time.Now()
	if order.FinishedAt != nil {
		finishedAt = *order.FinishedAt
	}
	return &ServiceOrderSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderSettled, AggregateTypeServiceOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
		Total:           order.Total().StringFixed(2),
		FinishedAt:      finishedAt,
	}
}

// ServiceOrderDeletedEvent is published when an order is removed
type ServiceOrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  string    `json:"number"`
}

// NewServiceOrderDeletedEvent creates a new ServiceOrderDeletedEvent
func NewServiceOrderDeletedEvent(order *ServiceOrder) *ServiceOrderDeletedEvent {
	return &ServiceOrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderDeleted, AggregateTypeServiceOrder, order.ID),
		OrderID:         order.ID,
		Number:          order.Number,
	}
}
