package models

import (
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// ItemModel is the GORM model for inventory items
type ItemModel struct {
	AggregateModel
	Name        string            `gorm:"type:varchar(200);not null;index"`
	Code        string            `gorm:"type:varchar(50);index"`
	Category    string            `gorm:"type:varchar(100);index"`
	CostPrice   valueobject.Money `gorm:"type:decimal(15,2);not null;column:cost_price"`
	SalePrice   valueobject.Money `gorm:"type:decimal(15,2);not null;column:sale_price"`
	Quantity    int               `gorm:"not null;default:0"`
	MinQuantity int               `gorm:"not null;default:0;column:min_quantity"`
	Location    string            `gorm:"type:varchar(100)"`
	ImageURL    string            `gorm:"type:text;column:image_url"`
}

// TableName returns the table name
func (ItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain Item
func (m *ItemModel) ToDomain() *inventory.Item {
	item := &inventory.Item{
		Name:        m.Name,
		Code:        m.Code,
		Category:    m.Category,
		CostPrice:   m.CostPrice,
		SalePrice:   m.SalePrice,
		Quantity:    m.Quantity,
		MinQuantity: m.MinQuantity,
		Location:    m.Location,
		ImageURL:    m.ImageURL,
	}
	m.PopulateAggregateRoot(&item.BaseAggregateRoot)
	return item
}

// FromDomain populates the model from a domain Item
func (m *ItemModel) FromDomain(item *inventory.Item) {
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	m.Name = item.Name
	m.Code = item.Code
	m.Category = item.Category
	m.CostPrice = item.CostPrice
	m.SalePrice = item.SalePrice
	m.Quantity = item.Quantity
	m.MinQuantity = item.MinQuantity
	m.Location = item.Location
	m.ImageURL = item.ImageURL
}

// ItemModelFromDomain creates a model from a domain Item
func ItemModelFromDomain(item *inventory.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(item)
	return m
}
