package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/kanko/component"
)

func TestComponent_Lifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	comp := NewComponent(Config{Name: "test-http"})

	if comp.Client() != nil {
		t.Error("Client() should be nil before Start()")
	}
	if comp.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Start()")
	}
	if _, err := comp.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected error fetching before Start()")
	}

	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if comp.Client() == nil {
		t.Fatal("Client() should not be nil after Start()")
	}

	health := comp.Health(context.Background())
	if health.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if health.Name != "test-http" {
		t.Errorf("expected name test-http, got %s", health.Name)
	}

	body, err := comp.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestComponent_StartInvalidConfig(t *testing.T) {
	comp := NewComponent(Config{MaxBodyBytes: -1})
	// ApplyDefaults replaces non-positive values, so this still starts.
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent(Config{})
	d := comp.Describe()
	if d.Name != "http-client" || d.Type != "http-client" {
		t.Errorf("unexpected description %+v", d)
	}
	if d.Details != "timeout=30s" {
		t.Errorf("Details = %q", d.Details)
	}
}
