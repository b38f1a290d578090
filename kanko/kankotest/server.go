// Package kankotest provides an in-process fake of the spot API.
package kankotest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"

	"github.com/kbukum/kanko/component"
	"github.com/kbukum/kanko/kanko"
	"github.com/kbukum/kanko/testutil"
)

// Server serves categories of spots over the same URL scheme as the real
// API and records every request it receives.
type Server struct {
	mu       sync.Mutex
	srv      *httptest.Server
	state    state
	requests []string
}

type state struct {
	spots    map[string][]json.RawMessage
	bodies   map[string]string
	failures map[string]int
}

func newState() state {
	return state{
		spots:    map[string][]json.RawMessage{},
		bodies:   map[string]string{},
		failures: map[string]int{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.spots {
		c.spots[k] = slices.Clone(v)
	}
	maps.Copy(c.bodies, s.bodies)
	maps.Copy(c.failures, s.failures)
	return c
}

var _ testutil.TestComponent = (*Server)(nil)

// NewServer creates a stopped fake. Start it with testutil.T(t).Setup.
func NewServer() *Server {
	return &Server{state: newState()}
}

// Name returns the component name.
func (s *Server) Name() string { return "kanko-fake" }

// Start begins listening on a loopback port.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return fmt.Errorf("kankotest: already started")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /k-cloud-api/{version}/kanko/{category}/{format}", s.handle)
	s.srv = httptest.NewServer(mux)
	return nil
}

// Stop shuts the listener down.
func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		s.srv.Close()
		s.srv = nil
	}
	return nil
}

// Health reports whether the server is listening.
func (s *Server) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// Reset drops all fixtures and the request log.
func (s *Server) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState()
	s.requests = nil
	return nil
}

// Snapshot captures the current fixtures.
func (s *Server) Snapshot(_ context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone(), nil
}

// Restore reinstates fixtures captured by Snapshot and clears the request log.
func (s *Server) Restore(_ context.Context, snapshot any) error {
	st, ok := snapshot.(state)
	if !ok {
		return fmt.Errorf("kankotest: unexpected snapshot type %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.clone()
	s.requests = nil
	return nil
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Endpoint returns an endpoint that points at the fake.
func (s *Server) Endpoint() kanko.Endpoint {
	return kanko.Endpoint{BaseURL: s.URL()}
}

// AddSpots appends raw JSON records to category. The count query reports
// the number of records added so far.
func (s *Server) AddSpots(category string, records ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.state.spots[category] = append(s.state.spots[category], json.RawMessage(r))
	}
}

// SetCountBody replaces the count response for category with body.
func (s *Server) SetCountBody(category, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.bodies[countKey(category)] = body
}

// SetPageBody replaces the response for the page of category at offset.
func (s *Server) SetPageBody(category string, offset int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.bodies[pageKey(category, offset)] = body
}

// FailCount makes the count query for category answer with status.
func (s *Server) FailCount(category string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.failures[countKey(category)] = status
}

// FailPage makes the page of category at offset answer with status.
func (s *Server) FailPage(category string, offset, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.failures[pageKey(category, offset)] = status
}

// Requests returns the absolute URLs requested so far, in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func countKey(category string) string { return "count:" + category }

func pageKey(category string, offset int) string {
	return "page:" + category + ":" + strconv.Itoa(offset)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, s.srv.URL+r.URL.RequestURI())

	category := r.PathValue("category")
	if r.PathValue("format") != "json" {
		http.Error(w, "unsupported format", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	if q.Get("count") == "true" {
		s.respond(w, countKey(category), func() any {
			return map[string]int{"count": len(s.state.spots[category])}
		})
		return
	}

	limit, errLimit := strconv.Atoi(q.Get("limit"))
	skip, errSkip := strconv.Atoi(q.Get("skip"))
	if errLimit != nil || errSkip != nil || limit < 0 || skip < 0 {
		http.Error(w, "limit and skip are required", http.StatusBadRequest)
		return
	}
	s.respond(w, pageKey(category, skip), func() any {
		all := s.state.spots[category]
		start := min(skip, len(all))
		end := min(skip+limit, len(all))
		page := append([]json.RawMessage{}, all[start:end]...)
		return map[string][]json.RawMessage{"tourspots": page}
	})
}

func (s *Server) respond(w http.ResponseWriter, key string, payload func() any) {
	if status, ok := s.state.failures[key]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if body, ok := s.state.bodies[key]; ok {
		_, _ = w.Write([]byte(body))
		return
	}
	_ = json.NewEncoder(w).Encode(payload())
}
