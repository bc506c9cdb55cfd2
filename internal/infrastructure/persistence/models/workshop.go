package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/mecanicpro/backend/internal/domain/workshop"
)

// ServiceOrderModel is the GORM model for service orders
type ServiceOrderModel struct {
	AggregateModel
	Number         string            `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerName   string            `gorm:"type:varchar(200);not null;column:customer_name"`
	Vehicle        string            `gorm:"type:varchar(200);not null"`
	Plate          string            `gorm:"type:varchar(20);index"`
	Description    string            `gorm:"type:text;not null"`
	ExecutionNotes string            `gorm:"type:text;column:execution_notes"`
	Status         string            `gorm:"type:varchar(30);not null;index"`
	Items          []BudgetItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Discount       valueobject.Money `gorm:"type:decimal(15,2);not null"`
	Mileage        string            `gorm:"type:varchar(20)"`
	ImageURL       string            `gorm:"type:text;column:image_url"`
	FinishedAt     *time.Time        `gorm:"index;column:finished_date"`
}

// TableName returns the table name
func (ServiceOrderModel) TableName() string {
	return "services"
}

// BudgetItemModel is the GORM model for one budget line of a service order
type BudgetItemModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name      string            `gorm:"type:varchar(200);not null"`
	UnitPrice valueobject.Money `gorm:"type:decimal(15,2);not null;column:unit_price"`
	Quantity  int               `gorm:"not null"`
	CreatedAt time.Time         `gorm:"not null"`
	UpdatedAt time.Time         `gorm:"not null"`
}

// TableName returns the table name
func (BudgetItemModel) TableName() string {
	return "service_budget_items"
}

// ToDomain converts the model to a domain ServiceOrder
func (m *ServiceOrderModel) ToDomain() *workshop.ServiceOrder {
	order := &workshop.ServiceOrder{
		Number:         m.Number,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		Vehicle:        m.Vehicle,
		Plate:          m.Plate,
		Description:    m.Description,
		ExecutionNotes: m.ExecutionNotes,
		Status:         workshop.ServiceStatus(m.Status),
		Items:          make([]workshop.BudgetItem, 0, len(m.Items)),
		Discount:       m.Discount,
		Mileage:        m.Mileage,
		ImageURL:       m.ImageURL,
		FinishedAt:     m.FinishedAt,
	}
	m.PopulateAggregateRoot(&order.BaseAggregateRoot)

	for i := range m.Items {
		order.Items = append(order.Items, *m.Items[i].ToDomain())
	}

	return order
}

// FromDomain populates the model from a domain ServiceOrder
func (m *ServiceOrderModel) FromDomain(order *workshop.ServiceOrder) {
	m.FromDomainAggregateRoot(order.BaseAggregateRoot)
	m.Number = order.Number
	m.CustomerID = order.CustomerID
	m.CustomerName = order.CustomerName
	m.Vehicle = order.Vehicle
	m.Plate = order.Plate
	m.Description = order.Description
	m.ExecutionNotes = order.ExecutionNotes
	m.Status = order.Status.String()
	m.Discount = order.Discount
	m.Mileage = order.Mileage
	m.ImageURL = order.ImageURL
	m.FinishedAt = order.FinishedAt

	m.Items = make([]BudgetItemModel, 0, len(order.Items))
	for i := range order.Items {
		var im BudgetItemModel
		im.FromDomain(&order.Items[i])
		m.Items = append(m.Items, im)
	}
}

// ServiceOrderModelFromDomain creates a model from a domain ServiceOrder
func ServiceOrderModelFromDomain(order *workshop.ServiceOrder) *ServiceOrderModel {
	m := &ServiceOrderModel{}
	m.FromDomain(order)
	return m
}

// ToDomain converts the model to a domain BudgetItem
func (m *BudgetItemModel) ToDomain() *workshop.BudgetItem {
	return &workshop.BudgetItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain BudgetItem
func (m *BudgetItemModel) FromDomain(item *workshop.BudgetItem) {
	m.ID = item.ID
	m.OrderID = item.OrderID
	m.Name = item.Name
	m.UnitPrice = item.UnitPrice
	m.Quantity = item.Quantity
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}
