package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/kbukum/kanko/logger"
)

// newMeterProvider exports metrics to the OTLP/HTTP endpoint in cfg every
// cfg.Interval. Shutdown performs a final export.
func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res)), nil
}

// Metrics are the run's instruments. A nil *Metrics records nothing.
type Metrics struct {
	pages         metric.Int64Counter
	records       metric.Int64Counter
	errors        metric.Int64Counter
	fetchDuration metric.Float64Histogram
}

// NewMetrics creates the run's instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.pages, "extract.pages.total", "Pages fetched from the spot API"},
		{&m.records, "extract.records.total", "Spot records emitted"},
		{&m.errors, "extract.errors.total", "Failed fetches by error code"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
	}
	m.fetchDuration, err = meter.Float64Histogram("extract.fetch.duration",
		metric.WithDescription("Duration of API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("histogram extract.fetch.duration: %w", err)
	}
	return &m, nil
}

// DefaultMetrics creates the instruments on the global meter provider and
// returns nil, after a warning, if that fails.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(otel.Meter(InstrumentationName))
	if err != nil {
		logger.Warn("metrics disabled", logger.MergeWithError(nil, err))
		return nil
	}
	return m
}

// RecordPage counts one fetched page and the records it carried.
func (m *Metrics) RecordPage(ctx context.Context, category string, records int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("category", category))
	m.pages.Add(ctx, 1, attrs)
	m.records.Add(ctx, int64(records), attrs)
}

// RecordFetch times one API request. Kind is "count" or "page" and status
// is "ok" or "error".
func (m *Metrics) RecordFetch(ctx context.Context, kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

// RecordError counts a failure under its error code and the component
// that saw it.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
