package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// Customer is the aggregate root owning the vehicles a client
// brings in.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseAggregateRoot
	Name     string    `gorm:"type:varchar(200);not null;index"`
	Document string    `gorm:"type:varchar(50);index"` // CPF/CNPJ
	Phone    string    `gorm:"type:varchar(50)"`
	Email    string    `gorm:"type:varchar(200)"`
	Address  string    `gorm:"type:text"`
	Vehicles []Vehicle `gorm:"-"`
}

// Vehicle is a child entity owned by a Customer; it is deleted with
// its parent.
type Vehicle struct {
	shared.BaseEntity
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Model      string    `gorm:"type:varchar(200);not null"`
	Plate      string    `gorm:"type:varchar(20);not null;index"`
	Color      string    `gorm:"type:varchar(50)"`
	Chassis    string    `gorm:"type:varchar(50)"`
	Km         string    `gorm:"type:varchar(20)"`
	Year       string    `gorm:"type:varchar(10)"`
	ImageURL   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, document, phone, email, address string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Document:          strings.TrimSpace(document),
		Phone:             phone,
		Email:             email,
		Address:           address,
		Vehicles:          make([]Vehicle, 0),
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, document, phone, email, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Name = strings.TrimSpace(name)
	c.Document = strings.TrimSpace(document)
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// AddVehicle adds a vehicle to the customer's fleet
func (c *Customer) AddVehicle(model, plate, color, chassis, km, year, imageURL string) (*Vehicle, error) {
	if err := validateVehicle(model, plate); err != nil {
		return nil, err
	}

	plate = normalizePlate(plate)
	for _, v := range c.Vehicles {
		if v.Plate == plate {
			return nil, shared.NewDomainError("DUPLICATE_PLATE", "Customer already has a vehicle with this plate")
		}
	}

	vehicle := Vehicle{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: c.ID,
		Model:      strings.TrimSpace(model),
		Plate:      plate,
		Color:      color,
		Chassis:    chassis,
		Km:         km,
		Year:       year,
		ImageURL:   imageURL,
	}
	c.Vehicles = append(c.Vehicles, vehicle)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewVehicleAddedEvent(c, &vehicle))

	return &vehicle, nil
}

// UpdateVehicle updates a vehicle owned by the customer
func (c *Customer) UpdateVehicle(vehicleID uuid.UUID, model, plate, color, chassis, km, year, imageURL string) error {
	if err := validateVehicle(model, plate); err != nil {
		return err
	}

	plate = normalizePlate(plate)
	for i := range c.Vehicles {
		if c.Vehicles[i].ID != vehicleID && c.Vehicles[i].Plate == plate {
			return shared.NewDomainError("DUPLICATE_PLATE", "Customer already has a vehicle with this plate")
		}
	}

	for i := range c.Vehicles {
		if c.Vehicles[i].ID == vehicleID {
			c.Vehicles[i].Model = strings.TrimSpace(model)
			c.Vehicles[i].Plate = plate
			c.Vehicles[i].Color = color
			c.Vehicles[i].Chassis = chassis
			c.Vehicles[i].Km = km
			c.Vehicles[i].Year = year
			c.Vehicles[i].ImageURL = imageURL
			c.Vehicles[i].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveVehicle removes a vehicle from the customer's fleet
func (c *Customer) RemoveVehicle(vehicleID uuid.UUID) error {
	for i := range c.Vehicles {
		if c.Vehicles[i].ID == vehicleID {
			c.Vehicles = append(c.Vehicles[:i], c.Vehicles[i+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// FindVehicle returns the vehicle with the given ID, or nil
func (c *Customer) FindVehicle(vehicleID uuid.UUID) *Vehicle {
	for i := range c.Vehicles {
		if c.Vehicles[i].ID == vehicleID {
			return &c.Vehicles[i]
		}
	}
	return nil
}

// HasVehicles returns true if the customer has at least one vehicle
func (c *Customer) HasVehicles() bool {
	return len(c.Vehicles) > 0
}

// Descriptor returns the vehicle's display string (year + model)
func (v *Vehicle) Descriptor() string {
	if v.Year != "" {
		return v.Year + " " + v.Model
	}
	return v.Model
}

// Validation functions

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateVehicle(model, plate string) error {
	if strings.TrimSpace(model) == "" {
		return shared.NewDomainError("INVALID_MODEL", "Vehicle model cannot be empty")
	}
	if strings.TrimSpace(plate) == "" {
		return shared.NewDomainError("INVALID_PLATE", "Vehicle plate cannot be empty")
	}
	if len(plate) > 20 {
		return shared.NewDomainError("INVALID_PLATE", "Vehicle plate cannot exceed 20 characters")
	}
	return nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
