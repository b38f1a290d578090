package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName scopes every span and instrument of the module.
const InstrumentationName = "github.com/kbukum/kanko"

// Identity names the service on everything it exports.
type Identity struct {
	Service     string
	Version     string
	Environment string
}

// resource merges the identity into the SDK default resource. Schemaless
// attributes never conflict with the default's schema URL.
func (id Identity) resource() (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(id.Service),
		semconv.ServiceVersion(id.Version),
		semconv.DeploymentEnvironment(id.Environment),
	))
}

// newTracerProvider batches spans to the OTLP/HTTP endpoint in cfg.
func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	), nil
}

func sampler(rate float64) sdktrace.Sampler {
	if rate >= 1 {
		return sdktrace.AlwaysSample()
	}
	if rate <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.TraceIDRatioBased(rate)
}

// StartSpan starts a span on the module tracer of the global provider.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, name, opts...)
}

// SetSpanError marks the span in ctx failed and records err on it.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Span names.
const (
	SpanExtractRun      = "extract.run"
	SpanExtractCategory = "extract.category"
	SpanKankoCount      = "kanko.count"
	SpanKankoPage       = "kanko.page"
)

// Attribute keys.
const (
	AttrRunID      = "run.id"
	AttrCategory   = "kanko.category"
	AttrOffset     = "kanko.offset"
	AttrLimit      = "kanko.limit"
	AttrTotal      = "kanko.total"
	AttrRecords    = "kanko.records"
	AttrURL        = "url.full"
	AttrDurationMs = "duration_ms"
	AttrStatus     = "status"
)
