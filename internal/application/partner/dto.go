package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// CreateCustomerRequest registers a customer, optionally with the
// vehicles they arrive with.
type CreateCustomerRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=200"`
	Document string                 `json:"document" binding:"max=50"`
	Phone    string                 `json:"phone" binding:"max=50"`
	Email    string                 `json:"email" binding:"omitempty,email,max=200"`
	Address  string                 `json:"address" binding:"max=500"`
	Vehicles []CreateVehicleRequest `json:"vehicles" binding:"omitempty,dive"`
}

// UpdateCustomerRequest patches a customer; nil fields stay untouched.
type UpdateCustomerRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Document *string `json:"document" binding:"omitempty,max=50"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
}

// CreateVehicleRequest adds a vehicle to a customer's fleet. The plate
// tag accepts both Brazilian layouts.
type CreateVehicleRequest struct {
	Model    string `json:"model" binding:"required,min=1,max=200"`
	Plate    string `json:"plate" binding:"required,plate"`
	Color    string `json:"color" binding:"max=50"`
	Chassis  string `json:"chassis" binding:"max=50"`
	Km       string `json:"km" binding:"max=20"`
	Year     string `json:"year" binding:"max=10"`
	ImageURL string `json:"image_url" binding:"max=2000"`
}

// UpdateVehicleRequest replaces a vehicle's details wholesale.
type UpdateVehicleRequest struct {
	Model    string `json:"model" binding:"required,min=1,max=200"`
	Plate    string `json:"plate" binding:"required,plate"`
	Color    string `json:"color" binding:"max=50"`
	Chassis  string `json:"chassis" binding:"max=50"`
	Km       string `json:"km" binding:"max=20"`
	Year     string `json:"year" binding:"max=10"`
	ImageURL string `json:"image_url" binding:"max=2000"`
}

type CustomerResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Document  string            `json:"document"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Address   string            `json:"address"`
	Vehicles  []VehicleResponse `json:"vehicles"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Version   int               `json:"version"`
}

type VehicleResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Model      string    `json:"model"`
	Plate      string    `json:"plate"`
	Color      string    `json:"color"`
	Chassis    string    `json:"chassis"`
	Km         string    `json:"km"`
	Year       string    `json:"year"`
	ImageURL   string    `json:"image_url"`
	Descriptor string    `json:"descriptor"`
}

// CustomerListFilter carries the list query parameters.
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toDomain fills the repository filter, keeping defaults for anything
// the caller left unset.
func (f CustomerListFilter) toDomain() shared.Filter {
	domainFilter := shared.DefaultFilter()
	if f.Page > 0 {
		domainFilter.Page = f.Page
	}
	if f.PageSize > 0 {
		domainFilter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		domainFilter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		domainFilter.OrderDir = f.OrderDir
	}
	domainFilter.Search = f.Search
	return domainFilter
}

func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	vehicles := make([]VehicleResponse, 0, len(c.Vehicles))
	for i := range c.Vehicles {
		vehicles = append(vehicles, ToVehicleResponse(&c.Vehicles[i]))
	}

	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Vehicles:  vehicles,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

func ToVehicleResponse(v *partner.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:         v.ID,
		CustomerID: v.CustomerID,
		Model:      v.Model,
		Plate:      v.Plate,
		Color:      v.Color,
		Chassis:    v.Chassis,
		Km:         v.Km,
		Year:       v.Year,
		ImageURL:   v.ImageURL,
		Descriptor: v.Descriptor(),
	}
}

func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses
}
