package workshop

import (
	"context"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/mecanicpro/backend/internal/domain/workshop"
	"github.com/mecanicpro/backend/internal/infrastructure/telemetry"
)

// ServiceOrderService handles the order lifecycle up to settlement:
// opening, budget revisions, approval, and execution updates.
type ServiceOrderService struct {
	orderRepo       workshop.ServiceOrderRepository
	customerRepo    partner.CustomerRepository
	settingsRepo    settings.Repository
	eventBus        shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// SetBusinessMetrics sets the business metrics collector
func (s *ServiceOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// NewServiceOrderService creates a new ServiceOrderService
func NewServiceOrderService(
	orderRepo workshop.ServiceOrderRepository,
	customerRepo partner.CustomerRepository,
	settingsRepo settings.Repository,
	eventBus shared.EventPublisher,
) *ServiceOrderService {
	return &ServiceOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		eventBus:     eventBus,
	}
}

// Create opens a new order in awaiting-approval. The order number comes
// from the settings counter and is consumed even if the order is later
// deleted.
func (s *ServiceOrderService) Create(ctx context.Context, req CreateServiceOrderRequest) (*ServiceOrderResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	vehicle := customer.FindVehicle(req.VehicleID)
	if vehicle == nil {
		return nil, shared.NewDomainError("VEHICLE_NOT_FOUND", "Customer does not own this vehicle")
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	number := cfg.AllocateServiceNumber()

	order, err := workshop.NewServiceOrder(
		number,
		customer.ID,
		customer.Name,
		vehicle.Descriptor(),
		vehicle.Plate,
		req.Description,
		req.Mileage,
		req.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	if len(req.Items) > 0 || req.Discount > 0 {
		if err := order.UpdateBudget(toBudgetLines(req.Items), valueobject.NewMoneyBRLFromFloat(req.Discount)); err != nil {
			return nil, err
		}
	}

	if err := s.settingsRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderCreated(ctx)
	}
	s.publishEvents(ctx, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *ServiceOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// ListActive lists orders that have not been settled yet
func (s *ServiceOrderService) ListActive(ctx context.Context, filter ServiceOrderListFilter) ([]ServiceOrderResponse, error) {
	orders, err := s.orderRepo.FindActive(ctx, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToServiceOrderResponses(orders), nil
}

// ListHistory lists settled orders
func (s *ServiceOrderService) ListHistory(ctx context.Context, filter ServiceOrderListFilter) ([]ServiceOrderResponse, error) {
	orders, err := s.orderRepo.FindHistory(ctx, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToServiceOrderResponses(orders), nil
}

// UpdateBudget replaces the order's budget items and discount
func (s *ServiceOrderService) UpdateBudget(ctx context.Context, orderID uuid.UUID, req UpdateBudgetRequest) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateBudget(toBudgetLines(req.Items), valueobject.NewMoneyBRLFromFloat(req.Discount)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Approve records the customer's budget approval and moves the order
// into execution
func (s *ServiceOrderService) Approve(ctx context.Context, orderID uuid.UUID) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Approve(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// UpdateExecution records execution notes and a status move between
// execution statuses
func (s *ServiceOrderService) UpdateExecution(ctx context.Context, orderID uuid.UUID, req UpdateExecutionRequest) (*ServiceOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateExecution(req.Notes, workshop.ServiceStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToServiceOrderResponse(order)
	return &response, nil
}

// Delete removes an order from whichever collection holds it, active
// or history; transactions already emitted are never touched.
func (s *ServiceOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, workshop.NewServiceOrderDeletedEvent(order))
	return nil
}

func (s *ServiceOrderService) publishEvents(ctx context.Context, order *workshop.ServiceOrder) {
	for _, event := range order.GetDomainEvents() {
		s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}

func toBudgetLines(inputs []BudgetLineInput) []workshop.BudgetLine {
	lines := make([]workshop.BudgetLine, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, workshop.BudgetLine{
			Name:      in.Name,
			UnitPrice: valueobject.NewMoneyBRLFromFloat(in.UnitPrice),
			Quantity:  in.Quantity,
		})
	}
	return lines
}

func toDomainFilter(filter ServiceOrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
