package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/kanko/component"
	"github.com/kbukum/kanko/logger"
	"github.com/kbukum/kanko/observability"
)

// Summary tracks the startup of an application and reports it to the log.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a new startup summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// StartupDuration returns the recorded startup time.
func (s *Summary) StartupDuration() time.Duration {
	return s.startupDuration
}

// Log writes one line for the application and one per registered component,
// including its description and live health.
func (s *Summary) Log(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	var results []component.Health
	if registry != nil {
		results = registry.HealthAll(ctx)
	}
	health := observability.AggregateHealth(s.serviceName, s.version, results)

	log.Info("Application started", map[string]interface{}{
		"name":               s.serviceName,
		"version":            s.version,
		"status":             string(health.Status),
		"components":         len(health.Components),
		logger.FieldDuration: s.startupDuration.Milliseconds(),
	})

	if registry == nil {
		return
	}

	status := make(map[string]observability.Health, len(health.Components))
	for _, h := range health.Components {
		status[h.Name] = h
	}

	for _, d := range registry.Describe() {
		fields := map[string]interface{}{
			logger.FieldComponent: d.Name,
			"type":                d.Type,
			"details":             d.Details,
		}
		if h, ok := status[d.Name]; ok {
			fields[logger.FieldStatus] = string(h.Status)
			if h.Message != "" {
				fields["reason"] = h.Message
			}
		}
		log.Info("Component ready", fields)
	}
}
