package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
)

// ItemService handles inventory item business operations
type ItemService struct {
	itemRepo inventory.ItemRepository
	eventBus shared.EventPublisher
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo inventory.ItemRepository, eventBus shared.EventPublisher) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		eventBus: eventBus,
	}
}

// Create registers a new inventory item
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if req.Code != "" {
		if _, err := s.itemRepo.FindByCode(ctx, req.Code); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this code already exists")
		} else if !shared.IsNotFound(err) {
			return nil, err
		}
	}

	item, err := inventory.NewItem(req.Name, req.Code, req.Category,
		valueobject.NewMoneyBRLFromFloat(req.CostPrice),
		valueobject.NewMoneyBRLFromFloat(req.SalePrice),
		req.Quantity, req.MinQuantity, req.Location, req.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	if filter.LowStock {
		items, err := s.itemRepo.FindLowStock(ctx)
		if err != nil {
			return nil, 0, err
		}
		return ToItemResponses(items), int64(len(items)), nil
	}

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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToItemResponses(items), total, nil
}

// Update updates an item's catalog information
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.Update(req.Name, req.Code, req.Category,
		valueobject.NewMoneyBRLFromFloat(req.CostPrice),
		valueobject.NewMoneyBRLFromFloat(req.SalePrice),
		req.MinQuantity, req.Location, req.ImageURL); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// AdjustQuantity applies a stock delta, e.g. parts consumed by a
// service or a restock delivery
func (s *ItemService) AdjustQuantity(ctx context.Context, id uuid.UUID, req AdjustQuantityRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.AdjustQuantity(req.Delta); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// SetQuantity replaces the stock count after a stock taking
func (s *ItemService) SetQuantity(ctx context.Context, id uuid.UUID, req SetQuantityRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes an item
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, id)
}

// ListLowStock lists items at or below their minimum quantity
func (s *ItemService) ListLowStock(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

func (s *ItemService) publishEvents(ctx context.Context, item *inventory.Item) {
	for _, event := range item.GetDomainEvents() {
		s.eventBus.Publish(ctx, event)
	}
	item.ClearDomainEvents()
}
