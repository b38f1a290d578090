package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/spots/1" {
			t.Errorf("expected /spots/1, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Spa"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Path: "/spots/1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() || resp.IsError() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("unexpected headers %v", resp.Headers)
	}
	if string(resp.Body) != `{"name":"Spa"}` {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestClient_Do_Headers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "kanko-test" {
			t.Errorf("expected User-Agent=kanko-test, got %q", got)
		}
		if got := r.Header.Get("X-Custom"); got != "override" {
			t.Errorf("expected X-Custom=override, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected default Accept, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL:   srv.URL,
		UserAgent: "kanko-test",
		Headers:   map[string]string{"X-Custom": "default"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Path: "/", Headers: map[string]string{"X-Custom": "override"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("skip"); got != "50" {
			t.Errorf("expected skip=50, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("expected existing limit=50 to survive, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Path: "/json?limit=50", Query: map[string]string{"skip": "50"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Fetch_AbsoluteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":1}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: "http://ignored.invalid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := c.Fetch(context.Background(), srv.URL+"/json?count=true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"count":1}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestClient_Fetch_StatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{http.StatusNotFound, ErrCodeNotFound, false},
		{http.StatusBadRequest, ErrCodeClient, false},
		{http.StatusForbidden, ErrCodeClient, false},
		{http.StatusTooManyRequests, ErrCodeRateLimit, true},
		{http.StatusInternalServerError, ErrCodeServer, true},
		{http.StatusBadGateway, ErrCodeServer, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer srv.Close()

			c, _ := New(Config{})
			body, err := c.Fetch(context.Background(), srv.URL)
			if body != nil {
				t.Errorf("expected nil body on error, got %q", body)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T %v", err, err)
			}
			if e.Code != tt.code || e.StatusCode != tt.status || e.Retryable != tt.retryable {
				t.Errorf("got code=%s status=%d retryable=%v", e.Code, e.StatusCode, e.Retryable)
			}
			if string(e.Body) != "nope" {
				t.Errorf("expected body to be kept, got %q", e.Body)
			}
		})
	}
}

func TestClient_Do_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{Timeout: 2 * time.Second})
	_, err := c.Fetch(context.Background(), url)
	if !IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection errors should be retryable")
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(Config{Timeout: 50 * time.Millisecond})
	_, err := c.Fetch(context.Background(), srv.URL)
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := New(Config{})
	_, err := c.Fetch(ctx, srv.URL)
	if !IsTimeout(err) {
		t.Errorf("expected cancelled request to classify as timeout, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestClient_Do_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	c, _ := New(Config{MaxBodyBytes: 10})
	_, err := c.Fetch(context.Background(), srv.URL)
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeTooLarge {
		t.Errorf("expected too_large error, got %v", err)
	}
}

func TestClient_Do_InvalidURL(t *testing.T) {
	c, _ := New(Config{})
	_, err := c.Fetch(context.Background(), "http://[::1]:namedport")
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeInvalidRequest {
		t.Errorf("expected invalid_request error, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.MaxBodyBytes != defaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (&Config{}).Validate(); err == nil {
		t.Error("zero config should not validate before defaults")
	}
}
