package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/kanko/errors"
)

// Operation tracks one traced, timed API call.
type Operation struct {
	Kind      string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// StartOperation starts a span named spanName and begins timing it.
// Kind labels the fetch duration metric ("count", "page").
// If metrics is nil, metric recording is skipped.
func StartOperation(ctx context.Context, spanName, kind string, metrics *Metrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(attrs...))
	return ctx, &Operation{
		Kind:      kind,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// Span returns the operation's span.
func (o *Operation) Span() trace.Span {
	return o.span
}

// SetAttributes adds attributes to the operation's span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// End ends the span and records the duration. A non-nil err marks the
// span failed and counts it under its error code.
func (o *Operation) End(ctx context.Context, component string, err error) {
	duration := o.Duration()
	status := "ok"
	if err != nil {
		status = "error"
		SetSpanError(trace.ContextWithSpan(ctx, o.span), err)
		o.Metrics.RecordError(ctx, string(errors.Wrap(err).Code), component)
	}

	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	o.Metrics.RecordFetch(ctx, o.Kind, status, duration)
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
