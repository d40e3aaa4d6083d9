package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/exposurelab/exposurescan/internal/database"
	"github.com/exposurelab/exposurescan/internal/limiter"
	"github.com/exposurelab/exposurescan/internal/pipeline"
)

// Server handles HTTP scan requests. It owns no listener; callers mount
// Routes on an http.Server so they control lifecycle and shutdown.
type Server struct {
	// orchestrator runs scans. It is stateless across scans and shared
	// by all requests.
	orchestrator *pipeline.Orchestrator

	// limiter bounds how many scans each client may start per window.
	limiter *limiter.Limiter

	// stats counts scans and throttled requests for the stats endpoint.
	stats *limiter.Stats

	// db persists completed scans. Nil disables persistence and the
	// history endpoints.
	db *database.ScanDB

	// logger receives structured logs. Defaults to slog.Default().
	logger *slog.Logger

	// version is reported by the stats endpoint.
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithDB enables scan persistence and the history endpoints.
func WithDB(db *database.ScanDB) Option {
	return func(s *Server) {
		s.db = db
	}
}

// WithServerLogger sets the logger.
func WithServerLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version string reported by the stats endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a Server around an orchestrator and a rate limiter.
func New(orchestrator *pipeline.Orchestrator, lim *limiter.Limiter, opts ...Option) *Server {
	s := &Server{
		orchestrator: orchestrator,
		limiter:      lim,
		stats:        limiter.NewStats(),
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Routes returns the chi router with all endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/scan", s.handleScan)
	r.Get("/api/scans", s.handleListScans)
	r.Get("/api/scans/{id}", s.handleGetScan)
	r.Get("/api/stats", s.handleStats)
	r.Get("/healthz", s.handleHealth)

	return r
}
