// Package fakeapi is an in-process stand-in for the DropNShare backend.
//
// It speaks the same HTTP/JSON contract under /api: registration, login,
// current user, logout and multipart upload, plus the download route the
// returned links point at. Errors mimic the backend's Laravel shapes:
// {"message": ...} with an optional {"errors": {field: [msg]}} map.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Wire paths relative to the API prefix.
const (
	Prefix = "/api"

	RequestedWithHeader = "X-Requested-With"
	RequestedWithValue  = "XMLHttpRequest"
)

type account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

type archive struct {
	Name      string
	Data      []byte
	ExpiresAt time.Time
}

type override struct {
	status int
	body   string
}

// Request is what the server saw for one call. Tests use it to check
// headers the client is expected to send.
type Request struct {
	Method string
	Path   string
	Header http.Header
}

// Server is the fake backend state. The zero value is not usable; call New.
type Server struct {
	secret   []byte
	tokenTTL time.Duration
	linkTTL  time.Duration

	mu        sync.Mutex
	nextID    int64
	accounts  map[string]*account
	revoked   map[string]struct{}
	archives  map[string]archive
	overrides map[string]override
	requests  []Request

	router chi.Router
}

func New() *Server {
	s := &Server{
		secret:    []byte("fakeapi-secret"),
		tokenTTL:  time.Hour,
		linkTTL:   7 * 24 * time.Hour,
		nextID:    1,
		accounts:  make(map[string]*account),
		revoked:   make(map[string]struct{}),
		archives:  make(map[string]archive),
		overrides: make(map[string]override),
	}
	s.router = s.routes()
	return s
}

// Start serves s on a random local port for the duration of the test and
// returns the server and its API base URL (with the /api prefix).
func Start(t testing.TB) (*Server, string) {
	t.Helper()
	s := New()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts.URL + Prefix
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestedWithHeader},
		MaxAge:         300,
	}))
	r.Use(s.record)
	r.Use(s.overridden)

	r.Route(Prefix, func(r chi.Router) {
		r.Get("/download/{name}", s.handleDownload)

		r.Group(func(r chi.Router) {
			r.Use(requireAJAX)
			r.Post("/auth/register", s.handleRegister)
			r.Post("/auth/login", s.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAJAX)
			r.Use(s.authenticate)
			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/logout", s.handleLogout)
			r.Post("/upload", s.handleUpload)
		})
	})

	return r
}

// Override makes every later request to method and path (without the /api
// prefix) answer with status and the raw body. An empty body sends no
// Content-Type. Call Reset to remove all overrides.
func (s *Server) Override(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[overrideKey(method, Prefix+"/"+strings.Trim(path, "/"))] = override{status: status, body: body}
}

// Reset removes all overrides.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.overrides)
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Accounts returns the number of registered accounts.
func (s *Server) Accounts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

func overrideKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) overridden(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		o, ok := s.overrides[overrideKey(r.Method, strings.TrimRight(r.URL.Path, "/"))]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if o.body != "" && json.Valid([]byte(o.body)) {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(o.status)
		_, _ = w.Write([]byte(o.body))
	})
}

// requireAJAX mimics the framework answering non-programmatic requests with
// an HTML page instead of JSON.
func requireAJAX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(RequestedWithHeader) != RequestedWithValue {
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			w.WriteHeader(http.StatusFound)
			_, _ = w.Write([]byte("<!DOCTYPE html><html><body>Redirecting to login</body></html>"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeValidation answers 422 with the first message on top and every
// field's messages in the errors map.
func writeValidation(w http.ResponseWriter, errs map[string][]string, first string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": first,
		"errors":  errs,
	})
}
