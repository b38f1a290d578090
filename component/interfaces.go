package component

import "context"

// HealthStatus is a component's self-reported state.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in the run summary.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is infrastructure a run needs up before it starts, such as the
// HTTP client or the telemetry exporters. Name must be unique per registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is a component's line in the startup summary.
type Description struct {
	Name    string // defaults to Component.Name
	Type    string // "http-client" or "telemetry"
	Details string
}

// Describable components report their settings in the startup summary.
type Describable interface {
	Describe() Description
}
