// Package httpapi exposes a small local control surface over HTTP: slot
// status, toggles, on-demand update checks, and Prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jj-repository/autoclicker/internal/engine"
	"github.com/jj-repository/autoclicker/internal/logging"
	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Updater is the slice of the update pipeline the API needs.
type Updater interface {
	Check(ctx context.Context) (domain.VersionInfo, bool, error)
}

// Server routes control requests to the engine.
type Server struct {
	engine   *engine.Engine
	updater  Updater
	version  string
	registry *prometheus.Registry
	log      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithUpdater enables the POST /update/check endpoint.
func WithUpdater(u Updater) Option {
	return func(s *Server) { s.updater = u }
}

// WithMetricsRegistry serves the given registry at GET /metrics.
func WithMetricsRegistry(r *prometheus.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer builds the control API around an engine.
func NewServer(eng *engine.Engine, version string, opts ...Option) *Server {
	s := &Server{engine: eng, version: version, log: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/status", s.handleStatus)
	r.Post("/slots/{name}/toggle", s.handleToggle)
	r.Post("/update/check", s.handleUpdateCheck)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

type statusResponse struct {
	Version       string            `json:"version"`
	EmergencyStop string            `json:"emergency_stop_hotkey"`
	Capturing     bool              `json:"capturing"`
	Slots         []engine.SlotView `json:"slots"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		Version:       s.version,
		EmergencyStop: s.engine.EmergencyHotkey().String(),
		Capturing:     s.engine.Capturing(),
		Slots:         s.engine.Slots(),
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.engine.Toggle(name); err != nil {
		if errors.Is(err, domain.ErrUnknownSlot) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, v := range s.engine.Slots() {
		if v.Name == name {
			s.writeJSON(w, http.StatusOK, v)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, domain.ErrUnknownSlot)
}

type updateCheckResponse struct {
	Outcome domain.UpdateOutcome `json:"outcome"`
	Current string               `json:"current"`
	Latest  string               `json:"latest,omitempty"`
}

func (s *Server) handleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	if s.updater == nil {
		s.writeError(w, http.StatusNotImplemented, errors.New("update checks are disabled"))
		return
	}
	info, newer, err := s.updater.Check(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	resp := updateCheckResponse{Outcome: domain.OutcomeUpToDate, Current: s.version, Latest: info.Tag}
	if newer {
		resp.Outcome = domain.OutcomeUpdateAvailable
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
