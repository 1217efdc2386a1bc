// Package apitest runs an in-memory stand-in for the healthchecks.io
// management API (v1 read endpoints) on an httptest server.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultAPIKey is accepted by servers created with New.
const DefaultAPIKey = "test-api-key"

type Check struct {
	UUID   string
	Name   string
	Tags   []string
	Status string
	Grace  int
	Flips  []Flip
	Pings  []Ping
}

type Flip struct {
	Timestamp time.Time
	Up        bool
}

type Ping struct {
	Type   string
	Method string
	Date   time.Time
}

type Channel struct {
	ID   string
	Name string
	Kind string
}

type fault struct {
	status int
	msg    string
}

// Server is a fake API rooted at URL + "/api/v1".
type Server struct {
	*httptest.Server
	APIKey string

	mu       sync.Mutex
	checks   []*Check
	channels []Channel
	requests []string
	fault    *fault
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{APIKey: DefaultAPIKey}

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.record)
		r.Use(s.authMiddleware)
		r.Use(s.faultInjection)

		r.Get("/badges", s.listBadges)
		r.Get("/channels", s.listChannels)
		r.Get("/checks", s.listChecks)
		r.Get("/checks/{uuid}", s.getCheck)
		r.Get("/checks/{uuid}/flips", s.listFlips)
		r.Get("/checks/{uuid}/pings", s.listPings)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root a Client should be pointed at.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v1"
}

// AddCheck registers a check in the "new" state and returns its uuid.
func (s *Server) AddCheck(name string, tags ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Check{
		UUID:   uuid.NewString(),
		Name:   name,
		Tags:   tags,
		Status: "new",
		Grace:  3600,
	}
	s.checks = append(s.checks, c)
	return c.UUID
}

// SetStatus sets a check's status and records a flip when it moves
// between up and down.
func (s *Server) SetStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.find(id)
	if c == nil {
		return
	}
	if (c.Status == "up") != (status == "up") && (status == "up" || status == "down") {
		c.Flips = append(c.Flips, Flip{Timestamp: time.Now().UTC(), Up: status == "up"})
	}
	c.Status = status
}

func (s *Server) AddPing(id, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.find(id); c != nil {
		c.Pings = append(c.Pings, Ping{Type: kind, Method: "GET", Date: time.Now().UTC()})
	}
}

func (s *Server) AddChannel(name, kind string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := Channel{ID: uuid.NewString(), Name: name, Kind: kind}
	s.channels = append(s.channels, ch)
	return ch.ID
}

// Fail makes every following request answer with status. An empty msg
// produces an empty body.
func (s *Server) Fail(status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = &fault{status: status, msg: msg}
}

// Requests returns the request URIs received so far, relative to the API root.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) find(id string) *Check {
	for _, c := range s.checks {
		if c.UUID == id {
			return c
		}
	}
	return nil
}

// --- Middleware ---

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, strings.TrimPrefix(r.URL.RequestURI(), "/api/v1/"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Api-Key")
		if key == "" {
			writeError(w, http.StatusUnauthorized, "missing api key")
			return
		}
		if key != s.APIKey {
			writeError(w, http.StatusUnauthorized, "wrong api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) faultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.fault
		s.mu.Unlock()
		if f == nil {
			next.ServeHTTP(w, r)
			return
		}
		if f.msg == "" {
			w.WriteHeader(f.status)
			return
		}
		writeError(w, f.status, f.msg)
	})
}

// --- Handlers ---

func (s *Server) listBadges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	badges := map[string]any{}
	base := "https://healthchecks.io/badge/" + strings.TrimPrefix(s.APIKey, "test-")
	for _, c := range s.checks {
		for _, tag := range c.Tags {
			badges[tag] = map[string]string{
				"svg":      base + "/" + tag + ".svg",
				"svg3":     base + "/" + tag + "-2.svg",
				"json":     base + "/" + tag + ".json",
				"json3":    base + "/" + tag + "-2.json",
				"shields":  base + "/" + tag + ".shields",
				"shields3": base + "/" + tag + "-2.shields",
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": badges})
}

func (s *Server) listChannels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, map[string]any{"id": ch.ID, "name": ch.Name, "kind": ch.Kind})
	}
	writeJSON(w, http.StatusOK, map[string]any{"channels": out})
}

// listChecks returns checks carrying every requested tag.
func (s *Server) listChecks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := r.URL.Query()["tag"]
	out := []map[string]any{}
	for _, c := range s.checks {
		if hasAllTags(c.Tags, want) {
			out = append(out, checkJSON(c))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"checks": out})
}

func (s *Server) getCheck(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, checkJSON(c))
}

func (s *Server) listFlips(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0, len(c.Flips))
	for _, f := range c.Flips {
		up := 0
		if f.Up {
			up = 1
		}
		out = append(out, map[string]any{"timestamp": f.Timestamp.Format(time.RFC3339), "up": up})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listPings(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first, numbered from 1 in arrival order.
	out := make([]map[string]any, 0, len(c.Pings))
	for i := len(c.Pings) - 1; i >= 0; i-- {
		p := c.Pings[i]
		out = append(out, map[string]any{
			"type":   p.Type,
			"date":   p.Date.Format(time.RFC3339),
			"n":      i + 1,
			"scheme": "http",
			"method": p.Method,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"pings": out})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Check, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return nil, false
	}
	s.mu.Lock()
	c := s.find(id.String())
	s.mu.Unlock()
	if c == nil {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	return c, true
}

func checkJSON(c *Check) map[string]any {
	tags := append([]string(nil), c.Tags...)
	sort.Strings(tags)
	return map[string]any{
		"uuid":     c.UUID,
		"name":     c.Name,
		"slug":     strings.ToLower(strings.ReplaceAll(c.Name, " ", "-")),
		"tags":     strings.Join(tags, " "),
		"status":   c.Status,
		"grace":    c.Grace,
		"n_pings":  len(c.Pings),
		"ping_url": "https://hc-ping.com/" + c.UUID,
	}
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
