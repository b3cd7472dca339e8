package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/zip-forecast/internal/presenter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Widget is the forecast widget state the server renders and mutates.
type Widget interface {
	Submit(ctx context.Context, postalCode string) presenter.View
	Advance() presenter.View
	Retreat() presenter.View
	View() presenter.View
}

// Server exposes the forecast widget plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	widget     Widget
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the widget page at /, the JSON API
// under /api, and /healthz, /readyz, and /metrics routes.
func NewServer(addr string, widget Widget, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// A search waits on three sequential upstream calls.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		widget: widget,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /search", s.handleFormSearch)
	mux.HandleFunc("POST /next", s.handleFormNav(widget.Advance))
	mux.HandleFunc("POST /prev", s.handleFormNav(widget.Retreat))

	mux.HandleFunc("GET /api/forecast", s.handleAPIView)
	mux.HandleFunc("POST /api/search", s.handleAPISearch)
	mux.HandleFunc("POST /api/next", handleAPINav(widget.Advance))
	mux.HandleFunc("POST /api/prev", handleAPINav(widget.Retreat))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, s.widget.View()); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleFormSearch(w http.ResponseWriter, r *http.Request) {
	s.widget.Submit(r.Context(), strings.TrimSpace(r.FormValue("zip")))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFormNav(move func() presenter.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		move()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleAPIView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.widget.View())
}

type searchRequest struct {
	Zip string `json:"zip"`
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, s.widget.Submit(r.Context(), strings.TrimSpace(req.Zip)))
}

func handleAPINav(move func() presenter.View) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, move())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
