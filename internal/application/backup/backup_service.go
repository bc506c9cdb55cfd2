package backup

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/partner"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/domain/shared/valueobject"
	"github.com/mecanicpro/backend/internal/domain/workshop"
)

// Wiper clears every data table before a snapshot import. The
// persistence layer implements it inside a single database transaction.
type Wiper interface {
	Wipe(ctx context.Context) error
}

// FanOutWiper wipes every underlying store in order. Used when both
// the remote database and the local mirror must be cleared.
type FanOutWiper []Wiper

// Wipe clears each store, stopping at the first failure
func (w FanOutWiper) Wipe(ctx context.Context) error {
	for _, wiper := range w {
		if err := wiper.Wipe(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Atomic runs fn as one atomic unit against a store: either every
// write inside fn lands or none do. The persistence layer implements
// it with a database transaction picked up by the repositories.
type Atomic interface {
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}

// NestedAtomic opens a transaction on every store and runs fn inside
// the innermost one. A failure rolls all of them back; each store is
// atomic on its own, which is as close as two databases get.
type NestedAtomic []Atomic

// Atomically implements Atomic over the whole chain
func (n NestedAtomic) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	if len(n) == 0 {
		return fn(ctx)
	}
	return n[0].Atomically(ctx, func(ctx context.Context) error {
		return n[1:].Atomically(ctx, fn)
	})
}

// SnapshotSource supplies a legacy snapshot for the one-time migration.
// Load returns shared.ErrNotFound when no snapshot exists or it was
// already migrated.
type SnapshotSource interface {
	Load(ctx context.Context) (*Document, error)
	MarkMigrated(ctx context.Context) error
}

// unlimitedFilter lists everything; PageSize 0 disables pagination in
// the persistence layer
func unlimitedFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.PageSize = 0
	return f
}

// Service exports and imports whole-workshop snapshots and performs
// the one-time migration from a local snapshot into an empty database.
type Service struct {
	customerRepo    partner.CustomerRepository
	orderRepo       workshop.ServiceOrderRepository
	transactionRepo finance.TransactionRepository
	itemRepo        inventory.ItemRepository
	settingsRepo    settings.Repository
	wiper           Wiper
	atomic          Atomic
	logger          *zap.Logger
}

// NewService creates a new backup Service
func NewService(
	customerRepo partner.CustomerRepository,
	orderRepo workshop.ServiceOrderRepository,
	transactionRepo finance.TransactionRepository,
	itemRepo inventory.ItemRepository,
	settingsRepo settings.Repository,
	wiper Wiper,
	atomic Atomic,
	logger *zap.Logger,
) *Service {
	return &Service{
		customerRepo:    customerRepo,
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		settingsRepo:    settingsRepo,
		wiper:           wiper,
		atomic:          atomic,
		logger:          logger,
	}
}

// Export assembles a snapshot of everything the workshop stores
func (s *Service) Export(ctx context.Context) (*Document, error) {
	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	customers, err := s.customerRepo.FindAll(ctx, unlimitedFilter())
	if err != nil {
		return nil, err
	}

	active, err := s.orderRepo.FindActive(ctx, unlimitedFilter())
	if err != nil {
		return nil, err
	}

	history, err := s.orderRepo.FindHistory(ctx, unlimitedFilter())
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindAll(ctx, unlimitedFilter())
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindAll(ctx, unlimitedFilter())
	if err != nil {
		return nil, err
	}

	doc := &Document{
		WorkshopInfo: WorkshopInfoDoc{
			Name:      cfg.Workshop.Name,
			Phone:     cfg.Workshop.Phone,
			Address:   cfg.Workshop.Address,
			LogoURL:   cfg.Workshop.LogoURL,
			LogoScale: cfg.Workshop.LogoScale,
		},
		NextServiceNumber:  cfg.NextServiceNumber,
		FinishedCountToday: cfg.FinishedCountToday,
		LastResetDate:      cfg.LastResetDate,
		Customers:          exportCustomers(customers),
		Services:           exportOrders(active),
		ServiceHistory:     exportOrders(history),
		Transactions:       exportTransactions(transactions),
		Inventory:          exportItems(items),
	}
	return doc, nil
}

// Import replaces the entire database with the snapshot's contents.
// The document is the new source of truth; current data is wiped first.
// Wipe and restore run inside one transaction per store, so a snapshot
// that fails half-way leaves the previous data untouched.
func (s *Service) Import(ctx context.Context, doc *Document) error {
	if doc == nil {
		return shared.NewDomainError("INVALID_SNAPSHOT", "Snapshot document is empty")
	}
	if doc.NextServiceNumber < 1 {
		doc.NextServiceNumber = 1
	}

	err := s.atomic.Atomically(ctx, func(ctx context.Context) error {
		return s.restore(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.logger.Info("snapshot imported",
		zap.Int("customers", len(doc.Customers)),
		zap.Int("services", len(doc.Services)+len(doc.ServiceHistory)),
		zap.Int("transactions", len(doc.Transactions)),
		zap.Int("inventory", len(doc.Inventory)))

	return nil
}

func (s *Service) restore(ctx context.Context, doc *Document) error {
	if err := s.wiper.Wipe(ctx); err != nil {
		return err
	}

	customerIDs := make(map[string]uuid.UUID, len(doc.Customers))
	for i := range doc.Customers {
		customer := importCustomer(&doc.Customers[i])
		customerIDs[doc.Customers[i].ID] = customer.ID
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			return err
		}
	}

	for i := range doc.Services {
		order := importOrder(&doc.Services[i], customerIDs, false)
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
	}
	for i := range doc.ServiceHistory {
		order := importOrder(&doc.ServiceHistory[i], customerIDs, true)
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
	}

	for i := range doc.Transactions {
		if err := s.transactionRepo.Save(ctx, importTransaction(&doc.Transactions[i])); err != nil {
			return err
		}
	}

	for i := range doc.Inventory {
		if err := s.itemRepo.Save(ctx, importItem(&doc.Inventory[i])); err != nil {
			return err
		}
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return err
	}
	cfg.Workshop = settings.WorkshopInfo{
		Name:      doc.WorkshopInfo.Name,
		Phone:     doc.WorkshopInfo.Phone,
		Address:   doc.WorkshopInfo.Address,
		LogoURL:   doc.WorkshopInfo.LogoURL,
		LogoScale: doc.WorkshopInfo.LogoScale,
	}
	if cfg.Workshop.LogoScale <= 0 {
		cfg.Workshop.LogoScale = 1.0
	}
	if err := cfg.RestoreCounters(doc.NextServiceNumber, doc.FinishedCountToday, doc.LastResetDate); err != nil {
		return err
	}
	return s.settingsRepo.Save(ctx, cfg)
}

// MigrateIfEmpty imports the local snapshot exactly once, and only
// into a database that has no data yet
func (s *Service) MigrateIfEmpty(ctx context.Context, source SnapshotSource) error {
	empty, err := s.isEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	doc, err := source.Load(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := s.Import(ctx, doc); err != nil {
		return err
	}

	if err := source.MarkMigrated(ctx); err != nil {
		return err
	}

	s.logger.Info("legacy snapshot migrated into empty database")
	return nil
}

func (s *Service) isEmpty(ctx context.Context) (bool, error) {
	customers, err := s.customerRepo.Count(ctx, unlimitedFilter())
	if err != nil {
		return false, err
	}
	if customers > 0 {
		return false, nil
	}

	active, err := s.orderRepo.CountActive(ctx)
	if err != nil {
		return false, err
	}
	if active > 0 {
		return false, nil
	}

	transactions, err := s.transactionRepo.Count(ctx, unlimitedFilter())
	if err != nil {
		return false, err
	}
	return transactions == 0, nil
}

// Export conversions

func exportCustomers(customers []partner.Customer) []CustomerDoc {
	docs := make([]CustomerDoc, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		vehicles := make([]VehicleDoc, 0, len(c.Vehicles))
		for j := range c.Vehicles {
			v := &c.Vehicles[j]
			vehicles = append(vehicles, VehicleDoc{
				ID:       v.ID.String(),
				Model:    v.Model,
				Plate:    v.Plate,
				Color:    v.Color,
				Chassis:  v.Chassis,
				Km:       v.Km,
				Year:     v.Year,
				ImageURL: v.ImageURL,
			})
		}
		docs = append(docs, CustomerDoc{
			ID:       c.ID.String(),
			Name:     c.Name,
			Document: c.Document,
			Phone:    c.Phone,
			Email:    c.Email,
			Address:  c.Address,
			Vehicles: vehicles,
		})
	}
	return docs
}

func exportOrders(orders []workshop.ServiceOrder) []ServiceDoc {
	docs := make([]ServiceDoc, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		items := make([]BudgetItemDoc, 0, len(o.Items))
		for j := range o.Items {
			items = append(items, BudgetItemDoc{
				Name:      o.Items[j].Name,
				UnitPrice: o.Items[j].UnitPrice.Float64(),
				Quantity:  o.Items[j].Quantity,
			})
		}
		doc := ServiceDoc{
			ID:             o.ID.String(),
			Number:         o.Number,
			CustomerID:     o.CustomerID.String(),
			CustomerName:   o.CustomerName,
			Vehicle:        o.Vehicle,
			Plate:          o.Plate,
			Description:    o.Description,
			ExecutionNotes: o.ExecutionNotes,
			Status:         o.Status.String(),
			BudgetItems:    items,
			Discount:       o.Discount.Float64(),
			Mileage:        o.Mileage,
			ImageURL:       o.ImageURL,
			IsoDate:        o.CreatedAt.Format(time.RFC3339),
		}
		if o.FinishedAt != nil {
			doc.FinishedDate = o.FinishedAt.Format(time.RFC3339)
		}
		docs = append(docs, doc)
	}
	return docs
}

func exportTransactions(transactions []finance.Transaction) []TransactionDoc {
	docs := make([]TransactionDoc, 0, len(transactions))
	for i := range transactions {
		tx := &transactions[i]
		docs = append(docs, TransactionDoc{
			ID:       tx.ID.String(),
			Title:    tx.Title,
			Subtitle: tx.Subtitle,
			Amount:   tx.Amount.Float64(),
			Type:     string(tx.Type),
			Category: string(tx.Category),
			Method:   tx.Method.String(),
			Status:   string(tx.Status),
			IsoDate:  tx.OccurredOn.Format(time.RFC3339),
		})
	}
	return docs
}

func exportItems(items []inventory.Item) []InventoryDoc {
	docs := make([]InventoryDoc, 0, len(items))
	for i := range items {
		item := &items[i]
		docs = append(docs, InventoryDoc{
			ID:          item.ID.String(),
			Name:        item.Name,
			Code:        item.Code,
			Category:    item.Category,
			CostPrice:   item.CostPrice.Float64(),
			SalePrice:   item.SalePrice.Float64(),
			Quantity:    item.Quantity,
			MinQuantity: item.MinQuantity,
			Location:    item.Location,
			ImageURL:    item.ImageURL,
		})
	}
	return docs
}

// Import conversions
//
// Imports rebuild aggregates directly from the snapshot instead of
// going through the constructors: the snapshot is trusted as-is, and
// legacy rows may hold values today's validation would refuse.

func importCustomer(doc *CustomerDoc) *partner.Customer {
	customer := &partner.Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              doc.Name,
		Document:          doc.Document,
		Phone:             doc.Phone,
		Email:             doc.Email,
		Address:           doc.Address,
		Vehicles:          make([]partner.Vehicle, 0, len(doc.Vehicles)),
	}
	for i := range doc.Vehicles {
		v := &doc.Vehicles[i]
		customer.Vehicles = append(customer.Vehicles, partner.Vehicle{
			BaseEntity: shared.NewBaseEntity(),
			CustomerID: customer.ID,
			Model:      v.Model,
			Plate:      v.Plate,
			Color:      v.Color,
			Chassis:    v.Chassis,
			Km:         v.Km,
			Year:       v.Year,
			ImageURL:   v.ImageURL,
		})
	}
	return customer
}

func importOrder(doc *ServiceDoc, customerIDs map[string]uuid.UUID, history bool) *workshop.ServiceOrder {
	status := workshop.ServiceStatus(doc.Status)
	if !status.IsValid() {
		if history {
			status = workshop.StatusFinished
		} else {
			status = workshop.StatusAwaitingApproval
		}
	}

	order := &workshop.ServiceOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            normalizeNumber(doc.Number),
		CustomerID:        customerIDs[doc.CustomerID],
		CustomerName:      doc.CustomerName,
		Vehicle:           doc.Vehicle,
		Plate:             doc.Plate,
		Description:       doc.Description,
		ExecutionNotes:    doc.ExecutionNotes,
		Status:            status,
		Discount:          valueobject.NewMoneyBRLFromFloat(doc.Discount),
		Mileage:           doc.Mileage,
		ImageURL:          doc.ImageURL,
	}
	order.CreatedAt = parseISODate(doc.IsoDate, order.CreatedAt)

	order.Items = make([]workshop.BudgetItem, 0, len(doc.BudgetItems))
	for i := range doc.BudgetItems {
		line := &doc.BudgetItems[i]
		order.Items = append(order.Items, workshop.BudgetItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Name:      line.Name,
			UnitPrice: valueobject.NewMoneyBRLFromFloat(line.UnitPrice),
			Quantity:  line.Quantity,
			CreatedAt: order.CreatedAt,
			UpdatedAt: order.CreatedAt,
		})
	}

	if history || doc.FinishedDate != "" {
		finished := parseISODate(doc.FinishedDate, order.CreatedAt)
		order.Status = workshop.StatusFinished
		order.FinishedAt = &finished
	}

	return order
}

func importTransaction(doc *TransactionDoc) *finance.Transaction {
	txType := finance.TransactionType(doc.Type)
	if !txType.IsValid() {
		if doc.Amount < 0 {
			txType = finance.TypeExpense
		} else {
			txType = finance.TypeIncome
		}
	}

	category := finance.TransactionCategory(doc.Category)
	if !category.IsValid() {
		category = finance.CategoryOther
	}

	// legacy rows carry free-text methods
	method := finance.PaymentMethod(doc.Method)
	if !method.IsValid() {
		method = finance.NormalizePaymentMethod(doc.Method)
	}

	var status finance.ChequeStatus
	if method == finance.MethodCheque {
		status = finance.ChequeStatus(doc.Status)
		if !status.IsValid() {
			status = finance.ChequeCleared
		}
	}

	tx := &finance.Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             doc.Title,
		Subtitle:          doc.Subtitle,
		Amount:            valueobject.NewMoneyBRLFromFloat(doc.Amount),
		Type:              txType,
		Category:          category,
		Method:            method,
		Status:            status,
	}
	tx.OccurredOn = parseISODate(doc.IsoDate, tx.CreatedAt)
	return tx
}

func importItem(doc *InventoryDoc) *inventory.Item {
	return &inventory.Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              doc.Name,
		Code:              doc.Code,
		Category:          doc.Category,
		CostPrice:         valueobject.NewMoneyBRLFromFloat(doc.CostPrice),
		SalePrice:         valueobject.NewMoneyBRLFromFloat(doc.SalePrice),
		Quantity:          doc.Quantity,
		MinQuantity:       doc.MinQuantity,
		Location:          doc.Location,
		ImageURL:          doc.ImageURL,
	}
}

// normalizeNumber zero-pads purely numeric legacy order numbers
func normalizeNumber(raw string) string {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return workshop.FormatOrderNumber(n)
	}
	return raw
}

func parseISODate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts
	}
	return fallback
}
