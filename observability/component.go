package observability

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/kanko/component"
	"github.com/kbukum/kanko/logger"
)

// Component owns the tracer and meter providers for a run. When the config
// is disabled Start installs nothing and the global no-op providers stay.
type Component struct {
	cfg Config
	id  Identity

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates the telemetry component for a service.
func NewComponent(cfg Config, service, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, id: Identity{Service: service, Version: version, Environment: environment}}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start installs the OTLP exporters when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	res, err := c.id.resource()
	if err != nil {
		return fmt.Errorf("telemetry resource: %w", err)
	}
	tp, err := newTracerProvider(ctx, c.cfg, res)
	if err != nil {
		return err
	}
	mp, err := newMeterProvider(ctx, c.cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetMeterProvider(mp)
	logger.Debug("telemetry exporters installed", logger.Fields("endpoint", c.cfg.Endpoint, "sample_rate", c.cfg.SampleRate))
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	return stderrors.Join(errs...)
}

// Health is healthy when disabled or when both providers are installed.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.cfg.Enabled && (c.tp == nil || c.mp == nil) {
		h.Status = component.StatusUnhealthy
		h.Message = "exporters not started"
	}
	return h
}

// Describe reports the export target.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample_rate=%g", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: c.Name(), Type: "telemetry", Details: details}
}
