package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mecanicpro/backend/internal/domain/shared"
	"github.com/mecanicpro/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis connection refused")
}

func (failingStore) IsProcessed(context.Context, string) (bool, error) {
	return false, errors.New("redis connection refused")
}

func (failingStore) Close() error { return nil }

func newDedupedHandler(t *testing.T, inner shared.EventHandler, opts ...IdempotentHandlerOption) *IdempotentHandler {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })
	return NewIdempotentHandler(inner, store, zap.NewNop(), opts...)
}

func TestIdempotentHandlerProcessesOnce(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	deduped := newDedupedHandler(t, alerts)

	evt := lowStockEvent()
	for i := 0; i < 3; i++ {
		require.NoError(t, deduped.Handle(t.Context(), evt))
	}

	assert.Equal(t, 1, alerts.count())
	stats := deduped.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(2), stats.EventsDuplicate)
}

func TestIdempotentHandlerDistinctEvents(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	deduped := newDedupedHandler(t, alerts)

	require.NoError(t, deduped.Handle(t.Context(), lowStockEvent()))
	require.NoError(t, deduped.Handle(t.Context(), lowStockEvent()))

	assert.Equal(t, 2, alerts.count())
}

func TestIdempotentHandlerPropagatesFailure(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}, err: errors.New("smtp down")}
	deduped := newDedupedHandler(t, alerts)

	err := deduped.Handle(t.Context(), lowStockEvent())
	assert.ErrorContains(t, err, "smtp down")

	stats := deduped.Metrics().Stats()
	assert.Equal(t, int64(0), stats.EventsProcessed)
	assert.Equal(t, int64(1), stats.EventsFailed)
}

func TestIdempotentHandlerStoreOutage(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	deduped := NewIdempotentHandler(alerts, failingStore{}, zap.NewNop())

	// the alert goes through even when the dedup store is down
	require.NoError(t, deduped.Handle(t.Context(), lowStockEvent()))
	assert.Equal(t, 1, alerts.count())
}

func TestIdempotentHandlerDisabled(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	deduped := newDedupedHandler(t, alerts, WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	evt := lowStockEvent()
	require.NoError(t, deduped.Handle(t.Context(), evt))
	require.NoError(t, deduped.Handle(t.Context(), evt))

	assert.Equal(t, 2, alerts.count())
	assert.Equal(t, int64(0), deduped.Metrics().Stats().EventsProcessed)
}

func TestIdempotentHandlerSharedMetrics(t *testing.T) {
	counters := &IdempotencyMetrics{}
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	audit := &recordingHandler{}

	dedupedAlerts := newDedupedHandler(t, alerts, WithIdempotencyMetrics(counters))
	dedupedAudit := newDedupedHandler(t, audit, WithIdempotencyMetrics(counters))

	require.NoError(t, dedupedAlerts.Handle(t.Context(), lowStockEvent()))
	require.NoError(t, dedupedAudit.Handle(t.Context(), lowStockEvent()))

	assert.Equal(t, int64(2), counters.Stats().EventsProcessed)
}

func TestIdempotentHandlerEventTypesPassThrough(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	deduped := newDedupedHandler(t, alerts)

	assert.Equal(t, []string{"inventory.stock_low"}, deduped.EventTypes())
}

func TestIdempotentHandlerConcurrentDuplicates(t *testing.T) {
	alerts := &recordingHandler{eventTypes: []string{"inventory.stock_low"}}
	deduped := newDedupedHandler(t, alerts)

	evt := lowStockEvent()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, deduped.Handle(context.Background(), evt))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, alerts.count())
	stats := deduped.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(49), stats.EventsDuplicate)
}
