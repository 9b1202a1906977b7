// Package api provides the HTTP admin API of gurtdns.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/storage"
	"github.com/lan-dot-party/gurtdns/pkg/version"
)

// Server represents the HTTP admin server.
type Server struct {
	config     *config.ServerConfig
	storage    storage.Storage
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server

	maintenance MaintenanceReporter
}

// MaintenanceStatus describes the maintenance scheduler in /api/v1/stats.
type MaintenanceStatus struct {
	Enabled  bool       `json:"enabled"`
	Running  bool       `json:"running"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	LastRun  *time.Time `json:"last_run,omitempty"`
}

// MaintenanceReporter is implemented by the maintenance scheduler.
type MaintenanceReporter interface {
	Status() MaintenanceStatus
}

// Option configures a Server.
type Option func(*Server)

// WithMaintenance adds the scheduler state to the stats endpoint.
func WithMaintenance(r MaintenanceReporter) Option {
	return func(s *Server) {
		s.maintenance = r
	}
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, store storage.Storage, logger *zap.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:  &cfg.Server,
		storage: store,
		logger:  logger.Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRouter()
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// setupRouter builds the route tree. /health stays reachable without
// credentials so load balancers can probe it.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.config.Auth.Username != "" {
			r.Use(basicAuth(s.config.Auth, s.logger))
		}

		r.Get("/metrics", s.handlePrometheusMetrics)
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/domains", s.handleListDomains)
			r.Get("/domains/{id}", s.handleGetDomain)
			r.Get("/stats", s.handleStats)
		})
	})

	s.router = r
}

// Serve serves HTTP on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting admin server",
		zap.String("listen", ln.Addr().String()),
		zap.String("version", version.GetShortVersion()),
	)

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down admin server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router (useful for testing).
func (s *Server) Router() chi.Router {
	return s.router
}
