package observability

import "github.com/kbukum/kanko/component"

// HealthStatus is the reported state of the service or one of its parts.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// severity orders statuses so the service reports its worst component.
var severity = map[HealthStatus]int{
	HealthStatusUp:       0,
	HealthStatusDegraded: 1,
	HealthStatusDown:     2,
}

type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ServiceHealth is the rolled-up view of a running job.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Version    string       `json:"version,omitempty"`
	Status     HealthStatus `json:"status"`
	Components []Health     `json:"components,omitempty"`
}

// AggregateHealth maps component results onto a ServiceHealth whose status is
// the worst of its components, or up when there are none.
func AggregateHealth(service, version string, results []component.Health) *ServiceHealth {
	sh := &ServiceHealth{Service: service, Version: version, Status: HealthStatusUp}
	for _, r := range results {
		h := Health{Name: r.Name, Status: statusOf(r.Status), Message: r.Message}
		if severity[h.Status] > severity[sh.Status] {
			sh.Status = h.Status
		}
		sh.Components = append(sh.Components, h)
	}
	return sh
}

// Failing returns the components that are not up.
func (sh *ServiceHealth) Failing() []Health {
	var out []Health
	for _, h := range sh.Components {
		if h.Status != HealthStatusUp {
			out = append(out, h)
		}
	}
	return out
}

func statusOf(s component.HealthStatus) HealthStatus {
	switch s {
	case component.StatusHealthy:
		return HealthStatusUp
	case component.StatusDegraded:
		return HealthStatusDegraded
	}
	return HealthStatusDown
}
