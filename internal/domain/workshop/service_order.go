package workshop

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// ServiceStatus is where an order sits in its lifecycle.
type ServiceStatus string

const (
	StatusAwaitingApproval ServiceStatus = "AGUARDANDO APROVAÇÃO"
	StatusInProgress       ServiceStatus = "EM ANDAMENTO"
	StatusAwaitingParts    ServiceStatus = "AGUARDANDO PEÇAS"
	StatusDiagnostics      ServiceStatus = "DIAGNÓSTICO"
	StatusOther            ServiceStatus = "OUTROS"
	StatusFinished         ServiceStatus = "CONCLUÍDO"
)

// IsValid checks if the status is a valid ServiceStatus
func (s ServiceStatus) IsValid() bool {
	switch s {
	case StatusAwaitingApproval, StatusInProgress, StatusAwaitingParts,
		StatusDiagnostics, StatusOther, StatusFinished:
		return true
	}
	return false
}

// String returns the string representation of ServiceStatus
func (s ServiceStatus) String() string {
	return string(s)
}

// IsExecution returns true for statuses reached after approval and
// before settlement
func (s ServiceStatus) IsExecution() bool {
	switch s {
	case StatusInProgress, StatusAwaitingParts, StatusDiagnostics, StatusOther:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target
// status. Approval is a one-way gate: no status may return to
// AGUARDANDO APROVAÇÃO. Execution statuses are freely interchangeable
// and each may advance to CONCLUÍDO, which is terminal.
func (s ServiceStatus) CanTransitionTo(target ServiceStatus) bool {
	switch s {
	case StatusAwaitingApproval:
		return target == StatusInProgress
	case StatusInProgress, StatusAwaitingParts, StatusDiagnostics, StatusOther:
		return target.IsExecution() || target == StatusFinished
	case StatusFinished:
		return false
	}
	return false
}

// BudgetItem is one priced line of an order's budget.
type BudgetItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Name      string
	UnitPrice valueobject.Money
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBudgetItem creates a new budget line item
func NewBudgetItem(orderID uuid.UUID, name string, unitPrice valueobject.Money, quantity int) (*BudgetItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Budget item name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	now := time.Now()
	return &BudgetItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		Name:      strings.TrimSpace(name),
		UnitPrice: unitPrice,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// LineTotal returns unit price times quantity
func (i *BudgetItem) LineTotal() valueobject.Money {
	return i.UnitPrice.MultiplyByInt(int64(i.Quantity))
}

// ServiceOrder is a workshop service order (OS). It is the
// aggregate root for the budget, approval, execution, and settlement
// lifecycle.
type ServiceOrder struct {
	shared.BaseAggregateRoot
	Number         string // sequential, zero-padded, never reused
	CustomerID     uuid.UUID
	CustomerName   string
	Vehicle        string // descriptor (year + model)
	Plate          string
	Description    string
	ExecutionNotes string
	Status         ServiceStatus
	Items          []BudgetItem
	Discount       valueobject.Money
	Mileage        string
	ImageURL       string
	FinishedAt     *time.Time
}

// TableName returns the table name for GORM
func (ServiceOrder) TableName() string {
	return "services"
}

// FormatOrderNumber renders a sequential counter value as the
// human-facing order number
func FormatOrderNumber(n int) string {
	return fmt.Sprintf("%02d", n)
}

// NewServiceOrder creates a new service order awaiting approval
func NewServiceOrder(number int, customerID uuid.UUID, customerName, vehicle, plate, description, mileage, imageURL string) (*ServiceOrder, error) {
	if number <= 0 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number must be positive")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer cannot be empty")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if strings.TrimSpace(vehicle) == "" {
		return nil, shared.NewDomainError("INVALID_VEHICLE", "Vehicle cannot be empty")
	}
	if strings.TrimSpace(plate) == "" {
		return nil, shared.NewDomainError("INVALID_PLATE", "Vehicle plate cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Service description cannot be empty")
	}
	if strings.TrimSpace(mileage) == "" {
		return nil, shared.NewDomainError("INVALID_MILEAGE", "Vehicle mileage cannot be empty")
	}

	order := &ServiceOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            FormatOrderNumber(number),
		CustomerID:        customerID,
		CustomerName:      strings.TrimSpace(customerName),
		Vehicle:           strings.TrimSpace(vehicle),
		Plate:             strings.ToUpper(strings.TrimSpace(plate)),
		Description:       strings.TrimSpace(description),
		Status:            StatusAwaitingApproval,
		Items:             make([]BudgetItem, 0),
		Discount:          valueobject.ZeroBRL(),
		Mileage:           strings.TrimSpace(mileage),
		ImageURL:          imageURL,
	}

	order.AddDomainEvent(NewServiceOrderCreatedEvent(order))

	return order, nil
}

// BudgetLine is the input for a budget revision
type BudgetLine struct {
	Name      string
	UnitPrice valueobject.Money
	Quantity  int
}

// UpdateBudget replaces the budget items and discount. The discount
// must not be negative but may exceed the subtotal, producing a
// negative total.
func (o *ServiceOrder) UpdateBudget(lines []BudgetLine, discount valueobject.Money) error {
	if o.Status == StatusFinished {
		return shared.NewDomainError("ORDER_FINISHED", "Cannot change the budget of a finished order")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	items := make([]BudgetItem, 0, len(lines))
	for _, line := range lines {
		item, err := NewBudgetItem(o.ID, line.Name, line.UnitPrice, line.Quantity)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	o.Items = items
	o.Discount = discount
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewBudgetUpdatedEvent(o))

	return nil
}

// Approve moves the order from awaiting-approval to in-progress.
// Requires a non-empty budget.
func (o *ServiceOrder) Approve() error {
	if o.Status != StatusAwaitingApproval {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Only orders awaiting approval can be approved, current status: %s", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_BUDGET", "Cannot approve an order without budget items")
	}

	o.Status = StatusInProgress
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewServiceOrderApprovedEvent(o))

	return nil
}

// UpdateExecution records execution notes and moves the order between
// execution statuses. Settlement is the only path to CONCLUÍDO.
func (o *ServiceOrder) UpdateExecution(notes string, target ServiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status: %s", target))
	}
	if target == StatusFinished {
		return shared.NewDomainError("INVALID_TRANSITION", "Orders are finished through payment settlement")
	}
	if target != o.Status && !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to %s", o.Status, target))
	}

	oldStatus := o.Status
	o.ExecutionNotes = notes
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	if oldStatus != target {
		o.AddDomainEvent(NewExecutionUpdatedEvent(o, oldStatus))
	}

	return nil
}

// MarkFinished stamps the finish date and moves the order to
// CONCLUÍDO. Called by payment settlement only.
func (o *ServiceOrder) MarkFinished(finishedAt time.Time) error {
	if !o.Status.CanTransitionTo(StatusFinished) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot finish an order in status %s", o.Status))
	}

	o.Status = StatusFinished
	o.FinishedAt = &finishedAt
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewServiceOrderSettledEvent(o))

	return nil
}

// Subtotal returns the sum of all budget line totals
func (o *ServiceOrder) Subtotal() valueobject.Money {
	subtotal := valueobject.ZeroBRL()
	for i := range o.Items {
		subtotal = subtotal.MustAdd(o.Items[i].LineTotal())
	}
	return subtotal
}

// Total returns subtotal minus discount. A nil order or an order
// without budget items totals the discount-adjusted zero.
func (o *ServiceOrder) Total() valueobject.Money {
	if o == nil {
		return valueobject.ZeroBRL()
	}
	return o.Subtotal().MustSubtract(o.Discount)
}

// IsAwaitingApproval returns true if the order awaits customer approval
func (o *ServiceOrder) IsAwaitingApproval() bool {
	return o.Status == StatusAwaitingApproval
}

// IsFinished returns true if the order is settled
func (o *ServiceOrder) IsFinished() bool {
	return o.Status == StatusFinished
}
