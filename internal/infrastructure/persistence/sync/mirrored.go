package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/workshop"
	"go.uber.org/zap"
)

// The mirrored repositories implement write-through replication: every
// write lands in the local store and the journal first, then the remote
// store is tried inline. A remote failure leaves the entry pending for
// the background syncer; it is never returned to the caller as long as
// the local write held.
//
// Reads prefer the remote store and fall back to the local mirror, so
// the workshop keeps operating when the remote store is unreachable.

type writeThrough struct {
	journal *Journal
	logger  *zap.Logger
}

func (w *writeThrough) record(ctx context.Context, entityType string, entityID uuid.UUID, op Operation, payload []byte, remote func(context.Context) error) error {
	entry, err := w.journal.Append(ctx, entityType, entityID, op, payload)
	if err != nil {
		return err
	}

	if err := remote(ctx); err != nil {
		w.logger.Warn("Remote write deferred to background sync",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		return nil
	}

	if err := w.journal.MarkSynced(ctx, entry.ID); err != nil {
		w.logger.Error("Failed to mark journal entry synced",
			zap.String("entry_id", entry.ID.String()), zap.Error(err))
	}
	return nil
}

// MirroredCustomerRepository is the write-through customer repository
type MirroredCustomerRepository struct {
	writeThrough
	remote partner.CustomerRepository
	local  partner.CustomerRepository
}

// NewMirroredCustomerRepository creates a mirrored customer repository
func NewMirroredCustomerRepository(remote, local partner.CustomerRepository, journal *Journal, logger *zap.Logger) *MirroredCustomerRepository {
	return &MirroredCustomerRepository{
		writeThrough: writeThrough{journal: journal, logger: logger},
		remote:       remote,
		local:        local,
	}
}

// FindByID finds a customer, falling back to the local mirror
func (r *MirroredCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, err := r.remote.FindByID(ctx, id)
	if err != nil {
		return r.local.FindByID(ctx, id)
	}
	return customer, nil
}

// FindByDocument finds a customer by document, falling back to the local mirror
func (r *MirroredCustomerRepository) FindByDocument(ctx context.Context, document string) (*partner.Customer, error) {
	customer, err := r.remote.FindByDocument(ctx, document)
	if err != nil {
		return r.local.FindByDocument(ctx, document)
	}
	return customer, nil
}

// FindByVehiclePlate finds the owning customer, falling back to the local mirror
func (r *MirroredCustomerRepository) FindByVehiclePlate(ctx context.Context, plate string) (*partner.Customer, error) {
	customer, err := r.remote.FindByVehiclePlate(ctx, plate)
	if err != nil {
		return r.local.FindByVehiclePlate(ctx, plate)
	}
	return customer, nil
}

// FindAll lists customers, falling back to the local mirror
func (r *MirroredCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	customers, err := r.remote.FindAll(ctx, filter)
	if err != nil {
		return r.local.FindAll(ctx, filter)
	}
	return customers, nil
}

// Save writes the customer through the local mirror and the journal
func (r *MirroredCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	if err := r.local.Save(ctx, customer); err != nil {
		return err
	}
	payload, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("failed to serialize customer: %w", err)
	}
	return r.record(ctx, EntityCustomer, customer.ID, OpUpsert, payload, func(ctx context.Context) error {
		return r.remote.Save(ctx, customer)
	})
}

// Delete removes the customer from both stores
func (r *MirroredCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.local.Delete(ctx, id); err != nil {
		return err
	}
	return r.record(ctx, EntityCustomer, id, OpDelete, nil, func(ctx context.Context) error {
		return r.remote.Delete(ctx, id)
	})
}

// Count counts customers, falling back to the local mirror
func (r *MirroredCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	count, err := r.remote.Count(ctx, filter)
	if err != nil {
		return r.local.Count(ctx, filter)
	}
	return count, nil
}

// ExistsByDocument checks both stores for the document
func (r *MirroredCustomerRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	exists, err := r.remote.ExistsByDocument(ctx, document)
	if err != nil {
		return r.local.ExistsByDocument(ctx, document)
	}
	return exists, nil
}

// MirroredServiceOrderRepository is the write-through service order repository
type MirroredServiceOrderRepository struct {
	writeThrough
	remote workshop.ServiceOrderRepository
	local  workshop.ServiceOrderRepository
}

// NewMirroredServiceOrderRepository creates a mirrored service order repository
func NewMirroredServiceOrderRepository(remote, local workshop.ServiceOrderRepository, journal *Journal, logger *zap.Logger) *MirroredServiceOrderRepository {
	return &MirroredServiceOrderRepository{
		writeThrough: writeThrough{journal: journal, logger: logger},
		remote:       remote,
		local:        local,
	}
}

// FindByID finds an order, falling back to the local mirror
func (r *MirroredServiceOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.ServiceOrder, error) {
	order, err := r.remote.FindByID(ctx, id)
	if err != nil {
		return r.local.FindByID(ctx, id)
	}
	return order, nil
}

// FindByNumber finds an order by number, falling back to the local mirror
func (r *MirroredServiceOrderRepository) FindByNumber(ctx context.Context, number string) (*workshop.ServiceOrder, error) {
	order, err := r.remote.FindByNumber(ctx, number)
	if err != nil {
		return r.local.FindByNumber(ctx, number)
	}
	return order, nil
}

// FindActive lists active orders, falling back to the local mirror
func (r *MirroredServiceOrderRepository) FindActive(ctx context.Context, filter shared.Filter) ([]workshop.ServiceOrder, error) {
	orders, err := r.remote.FindActive(ctx, filter)
	if err != nil {
		return r.local.FindActive(ctx, filter)
	}
	return orders, nil
}

// FindHistory lists finished orders, falling back to the local mirror
func (r *MirroredServiceOrderRepository) FindHistory(ctx context.Context, filter shared.Filter) ([]workshop.ServiceOrder, error) {
	orders, err := r.remote.FindHistory(ctx, filter)
	if err != nil {
		return r.local.FindHistory(ctx, filter)
	}
	return orders, nil
}

// FindFinishedBetween lists finished orders in range, falling back to the local mirror
func (r *MirroredServiceOrderRepository) FindFinishedBetween(ctx context.Context, start, end time.Time) ([]workshop.ServiceOrder, error) {
	orders, err := r.remote.FindFinishedBetween(ctx, start, end)
	if err != nil {
		return r.local.FindFinishedBetween(ctx, start, end)
	}
	return orders, nil
}

// Save writes the order through the local mirror and the journal
func (r *MirroredServiceOrderRepository) Save(ctx context.Context, order *workshop.ServiceOrder) error {
	if err := r.local.Save(ctx, order); err != nil {
		return err
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to serialize service order: %w", err)
	}
	return r.record(ctx, EntityServiceOrder, order.ID, OpUpsert, payload, func(ctx context.Context) error {
		return r.remote.Save(ctx, order)
	})
}

// Delete removes the order from both stores
func (r *MirroredServiceOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.local.Delete(ctx, id); err != nil {
		return err
	}
	return r.record(ctx, EntityServiceOrder, id, OpDelete, nil, func(ctx context.Context) error {
		return r.remote.Delete(ctx, id)
	})
}

// CountActive counts active orders, falling back to the local mirror
func (r *MirroredServiceOrderRepository) CountActive(ctx context.Context) (int64, error) {
	count, err := r.remote.CountActive(ctx)
	if err != nil {
		return r.local.CountActive(ctx)
	}
	return count, nil
}

// CountFinishedOn counts orders finished on the day, falling back to the local mirror
func (r *MirroredServiceOrderRepository) CountFinishedOn(ctx context.Context, day time.Time) (int64, error) {
	count, err := r.remote.CountFinishedOn(ctx, day)
	if err != nil {
		return r.local.CountFinishedOn(ctx, day)
	}
	return count, nil
}

// MirroredTransactionRepository is the write-through transaction repository
type MirroredTransactionRepository struct {
	writeThrough
	remote finance.TransactionRepository
	local  finance.TransactionRepository
}

// NewMirroredTransactionRepository creates a mirrored transaction repository
func NewMirroredTransactionRepository(remote, local finance.TransactionRepository, journal *Journal, logger *zap.Logger) *MirroredTransactionRepository {
	return &MirroredTransactionRepository{
		writeThrough: writeThrough{journal: journal, logger: logger},
		remote:       remote,
		local:        local,
	}
}

// FindByID finds a transaction, falling back to the local mirror
func (r *MirroredTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	tx, err := r.remote.FindByID(ctx, id)
	if err != nil {
		return r.local.FindByID(ctx, id)
	}
	return tx, nil
}

// FindAll lists transactions, falling back to the local mirror
func (r *MirroredTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Transaction, error) {
	txs, err := r.remote.FindAll(ctx, filter)
	if err != nil {
		return r.local.FindAll(ctx, filter)
	}
	return txs, nil
}

// FindBetween lists transactions in range, falling back to the local mirror
func (r *MirroredTransactionRepository) FindBetween(ctx context.Context, start, end time.Time) ([]finance.Transaction, error) {
	txs, err := r.remote.FindBetween(ctx, start, end)
	if err != nil {
		return r.local.FindBetween(ctx, start, end)
	}
	return txs, nil
}

// FindPendingChequesDueOn lists cheques due on the day, falling back to the local mirror
func (r *MirroredTransactionRepository) FindPendingChequesDueOn(ctx context.Context, day time.Time) ([]finance.Transaction, error) {
	txs, err := r.remote.FindPendingChequesDueOn(ctx, day)
	if err != nil {
		return r.local.FindPendingChequesDueOn(ctx, day)
	}
	return txs, nil
}

// Save writes the transaction through the local mirror and the journal
func (r *MirroredTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	if err := r.local.Save(ctx, tx); err != nil {
		return err
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return r.record(ctx, EntityTransaction, tx.ID, OpUpsert, payload, func(ctx context.Context) error {
		return r.remote.Save(ctx, tx)
	})
}

// Delete removes the transaction from both stores
func (r *MirroredTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.local.Delete(ctx, id); err != nil {
		return err
	}
	return r.record(ctx, EntityTransaction, id, OpDelete, nil, func(ctx context.Context) error {
		return r.remote.Delete(ctx, id)
	})
}

// Count counts transactions, falling back to the local mirror
func (r *MirroredTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	count, err := r.remote.Count(ctx, filter)
	if err != nil {
		return r.local.Count(ctx, filter)
	}
	return count, nil
}

// MirroredItemRepository is the write-through inventory repository
type MirroredItemRepository struct {
	writeThrough
	remote inventory.ItemRepository
	local  inventory.ItemRepository
}

// NewMirroredItemRepository creates a mirrored inventory repository
func NewMirroredItemRepository(remote, local inventory.ItemRepository, journal *Journal, logger *zap.Logger) *MirroredItemRepository {
	return &MirroredItemRepository{
		writeThrough: writeThrough{journal: journal, logger: logger},
		remote:       remote,
		local:        local,
	}
}

// FindByID finds an item, falling back to the local mirror
func (r *MirroredItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, err := r.remote.FindByID(ctx, id)
	if err != nil {
		return r.local.FindByID(ctx, id)
	}
	return item, nil
}

// FindByCode finds an item by code, falling back to the local mirror
func (r *MirroredItemRepository) FindByCode(ctx context.Context, code string) (*inventory.Item, error) {
	item, err := r.remote.FindByCode(ctx, code)
	if err != nil {
		return r.local.FindByCode(ctx, code)
	}
	return item, nil
}

// FindAll lists items, falling back to the local mirror
func (r *MirroredItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Item, error) {
	items, err := r.remote.FindAll(ctx, filter)
	if err != nil {
		return r.local.FindAll(ctx, filter)
	}
	return items, nil
}

// FindLowStock lists low-stock items, falling back to the local mirror
func (r *MirroredItemRepository) FindLowStock(ctx context.Context) ([]inventory.Item, error) {
	items, err := r.remote.FindLowStock(ctx)
	if err != nil {
		return r.local.FindLowStock(ctx)
	}
	return items, nil
}

// Save writes the item through the local mirror and the journal
func (r *MirroredItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	if err := r.local.Save(ctx, item); err != nil {
		return err
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to serialize inventory item: %w", err)
	}
	return r.record(ctx, EntityItem, item.ID, OpUpsert, payload, func(ctx context.Context) error {
		return r.remote.Save(ctx, item)
	})
}

// Delete removes the item from both stores
func (r *MirroredItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.local.Delete(ctx, id); err != nil {
		return err
	}
	return r.record(ctx, EntityItem, id, OpDelete, nil, func(ctx context.Context) error {
		return r.remote.Delete(ctx, id)
	})
}

// Count counts items, falling back to the local mirror
func (r *MirroredItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	count, err := r.remote.Count(ctx, filter)
	if err != nil {
		return r.local.Count(ctx, filter)
	}
	return count, nil
}

// CountLowStock counts low-stock items, falling back to the local mirror
func (r *MirroredItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	count, err := r.remote.CountLowStock(ctx)
	if err != nil {
		return r.local.CountLowStock(ctx)
	}
	return count, nil
}

// MirroredSettingsRepository is the write-through settings repository
type MirroredSettingsRepository struct {
	writeThrough
	remote settings.Repository
	local  settings.Repository
}

// NewMirroredSettingsRepository creates a mirrored settings repository
func NewMirroredSettingsRepository(remote, local settings.Repository, journal *Journal, logger *zap.Logger) *MirroredSettingsRepository {
	return &MirroredSettingsRepository{
		writeThrough: writeThrough{journal: journal, logger: logger},
		remote:       remote,
		local:        local,
	}
}

// Load reads the settings row, falling back to the local mirror
func (r *MirroredSettingsRepository) Load(ctx context.Context) (*settings.Settings, error) {
	cfg, err := r.remote.Load(ctx)
	if err != nil {
		return r.local.Load(ctx)
	}
	return cfg, nil
}

// Save writes the settings through the local mirror and the journal
func (r *MirroredSettingsRepository) Save(ctx context.Context, cfg *settings.Settings) error {
	if err := r.local.Save(ctx, cfg); err != nil {
		return err
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	return r.record(ctx, EntitySettings, cfg.ID, OpUpsert, payload, func(ctx context.Context) error {
		return r.remote.Save(ctx, cfg)
	})
}

var (
	_ partner.CustomerRepository      = (*MirroredCustomerRepository)(nil)
	_ workshop.ServiceOrderRepository = (*MirroredServiceOrderRepository)(nil)
	_ finance.TransactionRepository   = (*MirroredTransactionRepository)(nil)
	_ inventory.ItemRepository        = (*MirroredItemRepository)(nil)
	_ settings.Repository             = (*MirroredSettingsRepository)(nil)
)
