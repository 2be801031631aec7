package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/storefront/cart/internal/domain/cart"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Metric attribute keys
var (
	AttrOperation = attribute.Key("operation")
	AttrSource    = attribute.Key("source")
)

// CartMetrics records cart activity as OpenTelemetry counters
type CartMetrics struct {
	addTotal           *Counter
	addSuppressedTotal *Counter
	syncFailureTotal   *Counter
	hydrateTotal       *Counter
	droppedTotal       *Counter
	removeFailureTotal *Counter
}

// NewCartMetrics creates the cart counters on meter
func NewCartMetrics(meter metric.Meter) (*CartMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &CartMetrics{}
	counters := []struct {
		target      **Counter
		name        string
		description string
	}{
		{&m.addTotal, "cart_add_total", "Add requests applied to the cart"},
		{&m.addSuppressedTotal, "cart_add_suppressed_total", "Add requests suppressed as duplicates"},
		{&m.syncFailureTotal, "cart_sync_failure_total", "Background remote cart sync commands that failed"},
		{&m.hydrateTotal, "cart_hydrate_total", "Cart hydrations by source"},
		{&m.droppedTotal, "cart_hydrate_dropped_records_total", "Malformed remote cart records dropped during hydration"},
		{&m.removeFailureTotal, "cart_remove_failure_total", "Removals rejected by the remote cart"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.description, "{event}")
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}
	return m, nil
}

// ItemAdded implements cart.Recorder
func (m *CartMetrics) ItemAdded(ctx context.Context, suppressed bool) {
	if suppressed {
		m.addSuppressedTotal.Inc(ctx)
		return
	}
	m.addTotal.Inc(ctx)
}

// SyncFailed implements cart.Recorder
func (m *CartMetrics) SyncFailed(ctx context.Context, operation string) {
	m.syncFailureTotal.Inc(ctx, AttrOperation.String(operation))
}

// Hydrated implements cart.Recorder
func (m *CartMetrics) Hydrated(ctx context.Context, source string, dropped int) {
	m.hydrateTotal.Inc(ctx, AttrSource.String(source))
	if dropped > 0 {
		m.droppedTotal.Add(ctx, int64(dropped), AttrSource.String(source))
	}
}

// RemoveFailed implements cart.Recorder
func (m *CartMetrics) RemoveFailed(ctx context.Context) {
	m.removeFailureTotal.Inc(ctx)
}

var _ cart.Recorder = (*CartMetrics)(nil)
