// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is opt-in. With observability.enabled false the global providers
// stay no-op, so StartSpan and Metrics calls cost almost nothing.
//
//	comp := observability.NewComponent(cfg.Observability, "kanko-export", version.Short(), "production")
//	registry.Register(comp)
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanKankoPage, "page", metrics)
//	defer op.End(ctx, "kanko", err)
package observability
