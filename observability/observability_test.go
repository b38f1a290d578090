package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/kanko/component"
	"github.com/kbukum/kanko/errors"
)

// installRecorder swaps in an in-memory tracer provider for one test.
func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func newManualMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum, got %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"enabled ok", Config{Enabled: true, Endpoint: "collector:4318", SampleRate: 0.5}, false},
		{"enabled no endpoint", Config{Enabled: true, SampleRate: 1}, true},
		{"rate too high", Config{Enabled: true, Endpoint: "c:4318", SampleRate: 2}, true},
		{"rate negative", Config{Enabled: true, Endpoint: "c:4318", SampleRate: -0.1}, true},
		{"disabled ignores range", Config{SampleRate: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProvidersBuildWithoutCollector(t *testing.T) {
	cfg := Config{Enabled: true, Endpoint: "127.0.0.1:1", Insecure: true, SampleRate: 0.25, Interval: time.Minute}
	res, err := Identity{Service: "kanko-export", Version: "1.0.0", Environment: "production"}.resource()
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	ctx := context.Background()
	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		t.Fatalf("newTracerProvider: %v", err)
	}
	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		t.Fatalf("newMeterProvider: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = tp.Shutdown(shutdownCtx)
	_ = mp.Shutdown(shutdownCtx)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := Identity{Service: "kanko-export", Version: "1.0.0", Environment: "staging"}.resource()
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	found := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		found[kv.Key] = kv.Value.Emit()
	}
	if found["service.name"] != "kanko-export" {
		t.Errorf("service.name = %q", found["service.name"])
	}
	if found["service.version"] != "1.0.0" {
		t.Errorf("service.version = %q", found["service.version"])
	}
}

func TestStartSpanRecordsName(t *testing.T) {
	exporter := installRecorder(t)

	_, span := StartSpan(context.Background(), SpanExtractRun,
		trace.WithAttributes(attribute.String(AttrRunID, "run-1"), attribute.String(AttrCategory, "温泉")))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanExtractRun {
		t.Errorf("span name = %q", spans[0].Name)
	}
	if len(spans[0].Attributes) != 2 {
		t.Errorf("expected 2 attributes, got %v", spans[0].Attributes)
	}
}

func TestSetSpanError(t *testing.T) {
	exporter := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanKankoPage)
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error || got.Status.Description != "boom" {
		t.Errorf("unexpected status %+v", got.Status)
	}
	if len(got.Events) != 1 {
		t.Errorf("expected one exception event, got %d", len(got.Events))
	}
}

func TestSetSpanErrorWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanError(ctx, fmt.Errorf("no span"))
	if trace.SpanFromContext(ctx).IsRecording() {
		t.Error("background context should carry a non-recording span")
	}
}

func TestMetricsRecord(t *testing.T) {
	m, reader := newManualMetrics(t)
	ctx := context.Background()

	m.RecordPage(ctx, "温泉", 50)
	m.RecordPage(ctx, "温泉", 7)
	m.RecordFetch(ctx, "page", "ok", 20*time.Millisecond)
	m.RecordError(ctx, "TRANSPORT_ERROR", "kanko")

	data := collect(t, reader)
	if got := sumOf(t, data["extract.pages.total"]); got != 2 {
		t.Errorf("pages = %d", got)
	}
	if got := sumOf(t, data["extract.records.total"]); got != 57 {
		t.Errorf("records = %d", got)
	}
	if got := sumOf(t, data["extract.errors.total"]); got != 1 {
		t.Errorf("errors = %d", got)
	}
	hist, ok := data["extract.fetch.duration"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("unexpected fetch histogram %+v", data["extract.fetch.duration"])
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordPage(ctx, "温泉", 1)
	m.RecordFetch(ctx, "count", "ok", time.Millisecond)
	m.RecordError(ctx, "DECODE_ERROR", "kanko")
}

func TestNoopMeter(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil || m == nil {
		t.Fatalf("NewMetrics on noop meter: %v", err)
	}
	if DefaultMetrics() == nil {
		t.Error("DefaultMetrics should succeed on the global provider")
	}
}

func TestOperationSuccess(t *testing.T) {
	exporter := installRecorder(t)
	m, reader := newManualMetrics(t)

	ctx, op := StartOperation(context.Background(), SpanKankoCount, "count", m,
		attribute.String(AttrCategory, "温泉"))
	op.SetAttributes(attribute.Int(AttrTotal, 3))
	if !op.Span().IsRecording() {
		t.Error("operation span should be recording")
	}
	op.End(ctx, "kanko", nil)

	span := exporter.GetSpans()[0]
	if span.Name != SpanKankoCount || span.Status.Code == codes.Error {
		t.Errorf("unexpected span %s status %+v", span.Name, span.Status)
	}
	data := collect(t, reader)
	if _, ok := data["extract.errors.total"]; ok {
		t.Error("no error should be counted")
	}
	if _, ok := data["extract.fetch.duration"]; !ok {
		t.Error("expected fetch duration to be recorded")
	}
}

func TestOperationFailure(t *testing.T) {
	exporter := installRecorder(t)
	m, reader := newManualMetrics(t)

	ctx, op := StartOperation(context.Background(), SpanKankoPage, "page", m)
	op.End(ctx, "kanko", errors.Decode("http://x", fmt.Errorf("bad json")))

	if got := exporter.GetSpans()[0].Status.Code; got != codes.Error {
		t.Errorf("expected error status, got %v", got)
	}
	sum := collect(t, reader)["extract.errors.total"].(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 {
		t.Fatalf("expected one error data point, got %d", len(sum.DataPoints))
	}
	code, _ := sum.DataPoints[0].Attributes.Value("code")
	if code.AsString() != "DECODE_ERROR" {
		t.Errorf("error code label = %q", code.AsString())
	}
}

func TestOperationDuration(t *testing.T) {
	_, op := StartOperation(context.Background(), SpanKankoPage, "page", nil)
	op.StartTime = time.Now().Add(-50 * time.Millisecond)
	if d := op.Duration(); d < 45*time.Millisecond {
		t.Errorf("expected at least 50ms, got %v", d)
	}
	op.End(context.Background(), "kanko", nil)
}

func TestAggregateHealth(t *testing.T) {
	tests := []struct {
		name    string
		results []component.Health
		want    HealthStatus
		failing int
	}{
		{"empty", nil, HealthStatusUp, 0},
		{"all healthy", []component.Health{{Name: "a", Status: component.StatusHealthy}}, HealthStatusUp, 0},
		{"degraded", []component.Health{
			{Name: "a", Status: component.StatusHealthy},
			{Name: "b", Status: component.StatusDegraded},
		}, HealthStatusDegraded, 1},
		{"down wins", []component.Health{
			{Name: "a", Status: component.StatusUnhealthy},
			{Name: "b", Status: component.StatusDegraded},
		}, HealthStatusDown, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := AggregateHealth("kanko-export", "1.0.0", tt.results)
			if sh.Status != tt.want {
				t.Errorf("status = %s, want %s", sh.Status, tt.want)
			}
			if len(sh.Failing()) != tt.failing {
				t.Errorf("failing = %v", sh.Failing())
			}
		})
	}
}

func TestComponentDisabled(t *testing.T) {
	c := NewComponent(Config{}, "kanko-export", "1.0.0", "development")
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("disabled telemetry should be healthy, got %+v", h)
	}
	if d := c.Describe(); d.Details != "disabled" || d.Type != "telemetry" {
		t.Errorf("unexpected description %+v", d)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestComponentEnabledInvalid(t *testing.T) {
	c := NewComponent(Config{Enabled: true, SampleRate: 3}, "kanko-export", "1.0.0", "development")
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected validation error")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %+v", h)
	}
}
