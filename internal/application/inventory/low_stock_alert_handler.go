package inventory

import (
	"context"
	"fmt"

	"github.com/mecanicpro/backend/internal/domain/inventory"
	"github.com/mecanicpro/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler reacts to items falling to or below their
// minimum quantity and surfaces the alert to operators
type LowStockAlertHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier is the interface for delivering stock alerts.
// Implementations can support different channels (in-app, email, etc.)
type StockAlertNotifier interface {
	// SendAlert sends a stock alert notification
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert is one item that fell to or below its minimum.
type StockAlert struct {
	ItemID          string `json:"item_id"`
	Name            string `json:"name"`
	CurrentQuantity int    `json:"current_quantity"`
	MinimumQuantity int    `json:"minimum_quantity"`
	AlertType       string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewLowStockAlertHandler creates a new handler for low stock events
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockAlertHandler) WithNotifier(notifier StockAlertNotifier) *LowStockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeItemLowStock}
}

// Handle processes an ItemLowStockEvent
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStockEvent, ok := event.(*inventory.ItemLowStockEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeItemLowStock),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeItemLowStock, event.EventType())
	}

	alertType := "low_stock"
	if lowStockEvent.Quantity <= 0 {
		alertType = "out_of_stock"
	}

	h.logger.Warn("item below minimum stock",
		zap.String("item_id", lowStockEvent.ItemID.String()),
		zap.String("name", lowStockEvent.Name),
		zap.Int("quantity", lowStockEvent.Quantity),
		zap.Int("min_quantity", lowStockEvent.MinQuantity),
		zap.String("alert_type", alertType),
	)

	if h.notifier == nil {
		return nil
	}

	alert := StockAlert{
		ItemID:          lowStockEvent.ItemID.String(),
		Name:            lowStockEvent.Name,
		CurrentQuantity: lowStockEvent.Quantity,
		MinimumQuantity: lowStockEvent.MinQuantity,
		AlertType:       alertType,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// Notification failure must not fail the event handling
		h.logger.Error("failed to send stock alert notification",
			zap.String("item_id", alert.ItemID),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure LowStockAlertHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockAlertHandler)(nil)

// LoggingStockAlertNotifier is a simple notifier that logs alerts.
// Useful for development and testing.
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(ctx context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("item_id", alert.ItemID),
		zap.String("name", alert.Name),
		zap.Int("current_qty", alert.CurrentQuantity),
		zap.Int("minimum_qty", alert.MinimumQuantity),
	)
	return nil
}

// Ensure LoggingStockAlertNotifier implements StockAlertNotifier
var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
