package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterRequired is returned when NewBusinessMetrics gets no meter.
var ErrMeterRequired = errors.New("business metrics: meter is required")

// StockMetricsProvider answers the aggregate stock questions the gauge
// collector asks, so telemetry never imports the domain packages.
type StockMetricsProvider interface {
	GetLowStockCount(ctx context.Context) (int64, error)
	GetPendingChequeCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig configures the workshop-level instruments.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	StockProvider   StockMetricsProvider
	CollectInterval time.Duration
}

// BusinessMetrics tracks the numbers the shop owner actually watches:
// orders opened, money settled, payments by method, stock running low,
// cheques still in the drawer.
type BusinessMetrics struct {
	ordersOpened   *Counter
	amountSettled  *Counter
	payments       *Counter
	lowStockItems  *Gauge
	pendingCheques *Gauge

	stockProvider StockMetricsProvider
	logger        *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	runOnce  sync.Once
}

func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterRequired
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		stockProvider: cfg.StockProvider,
		logger:        cfg.Logger,
		stop:          make(chan struct{}),
	}

	var err error
	counter := func(name, desc, unit string) *Counter {
		if err != nil {
			return nil
		}
		var c *Counter
		c, err = NewCounter(cfg.Meter, name, desc, unit)
		return c
	}
	gauge := func(name, desc, unit string) *Gauge {
		if err != nil {
			return nil
		}
		var g *Gauge
		g, err = NewGauge(cfg.Meter, name, desc, unit)
		return g
	}

	bm.ordersOpened = counter("workshop_service_order_created_total", "Service orders opened", "{orders}")
	bm.amountSettled = counter("workshop_service_order_amount_total", "Settled order amount in centavos", "{centavos}")
	bm.payments = counter("workshop_payment_total", "Payment transactions by method and outcome", "{payments}")
	bm.lowStockItems = gauge("workshop_inventory_low_stock_count", "Items below their minimum stock threshold", "{items}")
	bm.pendingCheques = gauge("workshop_cheques_pending_count", "Cheques awaiting clearance", "{cheques}")
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderCreated counts a newly opened service order.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context) {
	bm.ordersOpened.Inc(ctx)
}

// RecordOrderSettled adds a settled order total, given in BRL, to the
// running centavo counter.
func (bm *BusinessMetrics) RecordOrderSettled(ctx context.Context, amount decimal.Decimal) {
	bm.amountSettled.Add(ctx, amount.Mul(decimal.NewFromInt(100)).IntPart())
}

// PaymentOutcome labels a payment for the payments counter.
type PaymentOutcome string

const (
	PaymentOutcomeSettled PaymentOutcome = "settled"
	PaymentOutcomeBounced PaymentOutcome = "bounced"
)

// RecordPayment counts one payment, labeled by method and outcome.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, method string, outcome PaymentOutcome) {
	bm.payments.Inc(ctx,
		attribute.String("payment_method", method),
		attribute.String("payment_status", string(outcome)),
	)
}

// StartPeriodicCollection samples the stock gauges every interval until
// Stop or context cancellation. Only the first call starts a collector.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.runOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.collectLoop(ctx, interval)
	})
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collect(ctx)
	for {
		select {
		case <-bm.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	if bm.stockProvider == nil {
		return
	}
	if n, err := bm.stockProvider.GetLowStockCount(ctx); err != nil {
		bm.logger.Warn("low stock gauge collection failed", zap.Error(err))
	} else {
		bm.lowStockItems.Record(ctx, n)
	}
	if n, err := bm.stockProvider.GetPendingChequeCount(ctx); err != nil {
		bm.logger.Warn("pending cheque gauge collection failed", zap.Error(err))
	} else {
		bm.pendingCheques.Record(ctx, n)
	}
}

// Stop halts the gauge collector; safe to call more than once.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() { close(bm.stop) })
}
