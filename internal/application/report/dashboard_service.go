package report

import (
	"context"
	"time"

	"github.com/mecanicpro/backend/internal/domain/finance"
	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/settings"
	"github.com/mecanicpro/backend/internal/domain/workshop"
)

// ChequeDueToday is one pending cheque due on the current day
type ChequeDueToday struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Amount   float64 `json:"amount"`
}

// DashboardResponse is the landing-screen summary
type DashboardResponse struct {
	ActiveOrders    int64            `json:"active_orders"`
	FinishedToday   int              `json:"finished_today"`
	ChequesDueToday []ChequeDueToday `json:"cheques_due_today"`
	LowStockItems   int64            `json:"low_stock_items"`
	WorkshopName    string           `json:"workshop_name"`
}

// DashboardService assembles the landing-screen summary from the
// other contexts
type DashboardService struct {
	orderRepo       workshop.ServiceOrderRepository
	transactionRepo finance.TransactionRepository
	itemRepo        inventory.ItemRepository
	settingsRepo    settings.Repository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	orderRepo workshop.ServiceOrderRepository,
	transactionRepo finance.TransactionRepository,
	itemRepo inventory.ItemRepository,
	settingsRepo settings.Repository,
) *DashboardService {
	return &DashboardService{
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		settingsRepo:    settingsRepo,
	}
}

// Summary returns the landing-screen numbers: orders in the shop,
// orders finished today, cheques due today, and low-stock items
func (s *DashboardService) Summary(ctx context.Context) (*DashboardResponse, error) {
	now := time.Now()

	active, err := s.orderRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.ResetIfNewDay(now) {
		if err := s.settingsRepo.Save(ctx, cfg); err != nil {
			return nil, err
		}
	}

	cheques, err := s.transactionRepo.FindPendingChequesDueOn(ctx, now)
	if err != nil {
		return nil, err
	}
	due := make([]ChequeDueToday, 0, len(cheques))
	for i := range cheques {
		due = append(due, ChequeDueToday{
			ID:       cheques[i].ID.String(),
			Title:    cheques[i].Title,
			Subtitle: cheques[i].Subtitle,
			Amount:   cheques[i].Amount.Float64(),
		})
	}

	lowStock, err := s.itemRepo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		ActiveOrders:    active,
		FinishedToday:   cfg.FinishedCountToday,
		ChequesDueToday: due,
		LowStockItems:   lowStock,
		WorkshopName:    cfg.Workshop.Name,
	}, nil
}
