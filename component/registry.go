package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/kanko/logger"
)

// stopTimeout bounds each component's Stop.
const stopTimeout = 10 * time.Second

// Registry starts components in registration order and stops the started
// ones in reverse.
type Registry struct {
	mu      sync.RWMutex
	order   []Component
	started map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{started: map[string]bool{}}
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.started[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.order = append(r.order, c)
	r.started[name] = false
	logger.Debug("component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts every component and stops at the first failure. The
// components started before it remain marked started so StopAll cleans
// them up.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.order {
		name := c.Name()
		if err := c.Start(ctx); err != nil {
			logger.Error("component start failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, name), err))
			return fmt.Errorf("start %s: %w", name, err)
		}
		r.started[name] = true
		logger.Debug("component started", logger.Fields(logger.FieldComponent, name))
	}
	return nil
}

// StopAll stops started components newest first and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.order[i]
		name := c.Name()
		if !r.started[name] {
			continue
		}
		r.started[name] = false
		if err := stopOne(ctx, c); err != nil {
			logger.Error("component stop failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, name), err))
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			continue
		}
		logger.Debug("component stopped", logger.Fields(logger.FieldComponent, name))
	}
	return errors.Join(errs...)
}

func stopOne(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll reports every component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.order))
	for i, c := range r.order {
		out[i] = c.Health(ctx)
	}
	return out
}

// Describe lists components for the startup summary. One that is not
// Describable is reported by name only.
func (r *Registry) Describe() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Description, len(r.order))
	for i, c := range r.order {
		d := Description{Name: c.Name()}
		if desc, ok := c.(Describable); ok {
			d = desc.Describe()
			if d.Name == "" {
				d.Name = c.Name()
			}
		}
		out[i] = d
	}
	return out
}
