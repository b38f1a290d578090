package testutil

import (
	"context"
	"testing"
)

// THelper drives TestComponents from a test and fails it on any lifecycle
// error.
type THelper struct {
	t testing.TB
}

// T wraps t.
//
//	srv := kankotest.NewServer()
//	testutil.T(t).Setup(srv)
func T(t testing.TB) *THelper {
	return &THelper{t: t}
}

// Setup starts c now and stops it when the test and its subtests are done.
// Stop runs with a fresh context since the test's own is canceled by then.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	h.must("start", c, c.Start(h.t.Context()))
	h.t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			h.t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	h.must("reset", c, c.Reset(h.t.Context()))
}

// Snapshot returns c's state for a later Restore.
func (h *THelper) Snapshot(c TestComponent) any {
	h.t.Helper()
	snap, err := c.Snapshot(h.t.Context())
	h.must("snapshot", c, err)
	return snap
}

func (h *THelper) Restore(c TestComponent, snapshot any) {
	h.t.Helper()
	h.must("restore", c, c.Restore(h.t.Context(), snapshot))
}

func (h *THelper) must(op string, c TestComponent, err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("%s %s: %v", op, c.Name(), err)
	}
}
