package testutil

import (
	"context"

	"github.com/kbukum/kanko/component"
)

// TestComponent is a component.Component that tests can rewind. Fakes such
// as the spot API server implement it so one test's fixtures never leak into
// the next.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (any, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot any) error
}
