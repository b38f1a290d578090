// Package component defines the lifecycle interface for infrastructure
// that must be started before a run and stopped after it.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse order.
package component
