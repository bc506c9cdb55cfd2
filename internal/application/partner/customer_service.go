package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/shared"
)

// CustomerService manages the shop's customers and the vehicles they
// bring in.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	eventBus     shared.EventPublisher
}

func NewCustomerService(customerRepo partner.CustomerRepository, eventBus shared.EventPublisher) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, eventBus: eventBus}
}

// Create registers a customer, optionally with an initial fleet.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := s.ensureDocumentFree(ctx, req.Document); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(req.Name, req.Document, req.Phone, req.Email, req.Address)
	if err != nil {
		return nil, err
	}
	for _, v := range req.Vehicles {
		if _, err := customer.AddVehicle(v.Model, v.Plate, v.Color, v.Chassis, v.Km, v.Year, v.ImageURL); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, customer)
}

func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return respond(customer), nil
}

// GetByVehiclePlate finds the customer whose fleet contains the plate,
// the lookup the front desk runs when a car pulls in.
func (s *CustomerService) GetByVehiclePlate(ctx context.Context, plate string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByVehiclePlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	return respond(customer), nil
}

func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := filter.toDomain()

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update applies the non-nil fields of the request.
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Document != nil && *req.Document != "" && *req.Document != customer.Document {
		if err := s.ensureDocumentFree(ctx, *req.Document); err != nil {
			return nil, err
		}
	}

	err = customer.Update(
		valueOr(req.Name, customer.Name),
		valueOr(req.Document, customer.Document),
		valueOr(req.Phone, customer.Phone),
		valueOr(req.Email, customer.Email),
		valueOr(req.Address, customer.Address),
	)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, customer)
}

// Delete removes a customer together with its vehicles. Service orders
// keep their own snapshot of the customer name and survive the deletion.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, partner.NewCustomerDeletedEvent(customer))
	return nil
}

func (s *CustomerService) AddVehicle(ctx context.Context, customerID uuid.UUID, req CreateVehicleRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if _, err := customer.AddVehicle(req.Model, req.Plate, req.Color, req.Chassis, req.Km, req.Year, req.ImageURL); err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

func (s *CustomerService) UpdateVehicle(ctx context.Context, customerID, vehicleID uuid.UUID, req UpdateVehicleRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateVehicle(vehicleID, req.Model, req.Plate, req.Color, req.Chassis, req.Km, req.Year, req.ImageURL); err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

func (s *CustomerService) RemoveVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.RemoveVehicle(vehicleID); err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

func (s *CustomerService) ensureDocumentFree(ctx context.Context, document string) error {
	if document == "" {
		return nil
	}
	exists, err := s.customerRepo.ExistsByDocument(ctx, document)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Customer with this document already exists")
	}
	return nil
}

// save persists the aggregate, flushes its domain events, and shapes
// the response.
func (s *CustomerService) save(ctx context.Context, customer *partner.Customer) (*CustomerResponse, error) {
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	for _, event := range customer.GetDomainEvents() {
		s.eventBus.Publish(ctx, event)
	}
	customer.ClearDomainEvents()
	return respond(customer), nil
}

func respond(customer *partner.Customer) *CustomerResponse {
	response := ToCustomerResponse(customer)
	return &response
}

func valueOr(ptr *string, current string) string {
	if ptr != nil {
		return *ptr
	}
	return current
}
