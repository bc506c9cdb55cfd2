package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID, vehicles included
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByDocument finds a customer by its document (CPF/CNPJ)
	FindByDocument(ctx context.Context, document string) (*Customer, error)

	// FindByVehiclePlate finds the customer owning the vehicle with the given plate
	FindByVehiclePlate(ctx context.Context, plate string) (*Customer, error)

	// FindAll finds all customers matching the filter; Search matches
	// name or document
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer together with its vehicles
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer and all of its vehicles
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByDocument checks if a customer with the given document exists
	ExistsByDocument(ctx context.Context, document string) (bool, error)
}
