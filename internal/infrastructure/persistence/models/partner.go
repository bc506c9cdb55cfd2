package models

import (
	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// CustomerModel is the GORM model for customers
type CustomerModel struct {
	AggregateModel
	Name     string         `gorm:"type:varchar(200);not null;index"`
	Document string         `gorm:"type:varchar(50);index"`
	Phone    string         `gorm:"type:varchar(50)"`
	Email    string         `gorm:"type:varchar(200)"`
	Address  string         `gorm:"type:text"`
	Vehicles []VehicleModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name
func (CustomerModel) TableName() string {
	return "customers"
}

// VehicleModel is the GORM model for a customer's vehicle
type VehicleModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Model      string    `gorm:"type:varchar(200);not null"`
	Plate      string    `gorm:"type:varchar(20);not null;index"`
	Color      string    `gorm:"type:varchar(50)"`
	Chassis    string    `gorm:"type:varchar(50)"`
	Km         string    `gorm:"type:varchar(20)"`
	Year       string    `gorm:"type:varchar(10)"`
	ImageURL   string    `gorm:"type:text;column:image_url"`
}

// TableName returns the table name
func (VehicleModel) TableName() string {
	return "vehicles"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	customer := &partner.Customer{
		Name:     m.Name,
		Document: m.Document,
		Phone:    m.Phone,
		Email:    m.Email,
		Address:  m.Address,
		Vehicles: make([]partner.Vehicle, 0, len(m.Vehicles)),
	}
	m.PopulateAggregateRoot(&customer.BaseAggregateRoot)

	for i := range m.Vehicles {
		customer.Vehicles = append(customer.Vehicles, *m.Vehicles[i].ToDomain())
	}

	return customer
}

// FromDomain populates the model from a domain Customer
func (m *CustomerModel) FromDomain(customer *partner.Customer) {
	m.FromDomainAggregateRoot(customer.BaseAggregateRoot)
	m.Name = customer.Name
	m.Document = customer.Document
	m.Phone = customer.Phone
	m.Email = customer.Email
	m.Address = customer.Address

	m.Vehicles = make([]VehicleModel, 0, len(customer.Vehicles))
	for i := range customer.Vehicles {
		var vm VehicleModel
		vm.FromDomain(&customer.Vehicles[i])
		m.Vehicles = append(m.Vehicles, vm)
	}
}

// CustomerModelFromDomain creates a model from a domain Customer
func CustomerModelFromDomain(customer *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(customer)
	return m
}

// ToDomain converts the model to a domain Vehicle
func (m *VehicleModel) ToDomain() *partner.Vehicle {
	return &partner.Vehicle{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CustomerID: m.CustomerID,
		Model:      m.Model,
		Plate:      m.Plate,
		Color:      m.Color,
		Chassis:    m.Chassis,
		Km:         m.Km,
		Year:       m.Year,
		ImageURL:   m.ImageURL,
	}
}

// FromDomain populates the model from a domain Vehicle
func (m *VehicleModel) FromDomain(vehicle *partner.Vehicle) {
	m.FromDomainBaseEntity(vehicle.BaseEntity)
	m.CustomerID = vehicle.CustomerID
	m.Model = vehicle.Model
	m.Plate = vehicle.Plate
	m.Color = vehicle.Color
	m.Chassis = vehicle.Chassis
	m.Km = vehicle.Km
	m.Year = vehicle.Year
	m.ImageURL = vehicle.ImageURL
}
