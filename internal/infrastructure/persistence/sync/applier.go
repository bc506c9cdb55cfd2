package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/workshop"
)

// Entity types used in journal entries
const (
	EntityCustomer     = "customer"
	EntityServiceOrder = "service_order"
	EntityTransaction  = "transaction"
	EntityItem         = "inventory_item"
	EntitySettings     = "settings"
)

// Applier replays one journal entry against a store
type Applier interface {
	Apply(ctx context.Context, entry Entry) error
}

// RemoteApplier replays journal entries against the remote repositories
type RemoteApplier struct {
	customers    partner.CustomerRepository
	orders       workshop.ServiceOrderRepository
	transactions finance.TransactionRepository
	items        inventory.ItemRepository
	settings     settings.Repository
}

// NewRemoteApplier creates an applier over the remote repositories
func NewRemoteApplier(
	customers partner.CustomerRepository,
	orders workshop.ServiceOrderRepository,
	transactions finance.TransactionRepository,
	items inventory.ItemRepository,
	settingsRepo settings.Repository,
) *RemoteApplier {
	return &RemoteApplier{
		customers:    customers,
		orders:       orders,
		transactions: transactions,
		items:        items,
		settings:     settingsRepo,
	}
}

// Apply replays a single journalled write. Deleting an entity the
// remote never saw is treated as already applied.
func (a *RemoteApplier) Apply(ctx context.Context, entry Entry) error {
	if entry.Operation == OpDelete {
		return a.applyDelete(ctx, entry)
	}
	return a.applyUpsert(ctx, entry)
}

func (a *RemoteApplier) applyDelete(ctx context.Context, entry Entry) error {
	var err error
	switch entry.EntityType {
	case EntityCustomer:
		err = a.customers.Delete(ctx, entry.EntityID)
	case EntityServiceOrder:
		err = a.orders.Delete(ctx, entry.EntityID)
	case EntityTransaction:
		err = a.transactions.Delete(ctx, entry.EntityID)
	case EntityItem:
		err = a.items.Delete(ctx, entry.EntityID)
	default:
		return fmt.Errorf("cannot delete entity type %q", entry.EntityType)
	}

	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

func (a *RemoteApplier) applyUpsert(ctx context.Context, entry Entry) error {
	switch entry.EntityType {
	case EntityCustomer:
		var customer partner.Customer
		if err := json.Unmarshal(entry.Payload, &customer); err != nil {
			return fmt.Errorf("corrupt customer payload: %w", err)
		}
		return a.customers.Save(ctx, &customer)
	case EntityServiceOrder:
		var order workshop.ServiceOrder
		if err := json.Unmarshal(entry.Payload, &order); err != nil {
			return fmt.Errorf("corrupt service order payload: %w", err)
		}
		return a.orders.Save(ctx, &order)
	case EntityTransaction:
		var tx finance.Transaction
		if err := json.Unmarshal(entry.Payload, &tx); err != nil {
			return fmt.Errorf("corrupt transaction payload: %w", err)
		}
		return a.transactions.Save(ctx, &tx)
	case EntityItem:
		var item inventory.Item
		if err := json.Unmarshal(entry.Payload, &item); err != nil {
			return fmt.Errorf("corrupt inventory item payload: %w", err)
		}
		return a.items.Save(ctx, &item)
	case EntitySettings:
		var cfg settings.Settings
		if err := json.Unmarshal(entry.Payload, &cfg); err != nil {
			return fmt.Errorf("corrupt settings payload: %w", err)
		}
		return a.settings.Save(ctx, &cfg)
	}
	return fmt.Errorf("unknown entity type %q", entry.EntityType)
}

var _ Applier = (*RemoteApplier)(nil)
