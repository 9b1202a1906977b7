// Package server runs the gurtdns service: storage, admin API and
// maintenance scheduler, until the process is signalled.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/api"
	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/qos"
	"github.com/lan-dot-party/gurtdns/internal/scheduler"
	"github.com/lan-dot-party/gurtdns/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type listenFunc func(ctx context.Context, network, address string) (net.Listener, error)

// Server implements bootstrap.Starter.
type Server struct {
	// listen replaces the DSCP-marking listener, for tests.
	listen listenFunc
	// ready, when set, receives the bound address once the listener is up.
	ready chan<- string
}

// New creates a Server.
func New() *Server {
	return &Server{}
}

var _ bootstrap.Starter = (*Server)(nil)

// Start loads the configuration named by inv and serves until ctx is
// cancelled, SIGINT/SIGTERM is received, or the listener fails.
func (s *Server) Start(ctx context.Context, inv bootstrap.Invocation, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	cfg, err := config.Load(inv.ConfigPath)
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Failed to close storage", zap.Error(err))
		}
	}()
	log.Info("Storage initialized", zap.String("backend", cfg.Database.Backend()))

	initDomainMetrics(ctx, store, log)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewScheduler(&cfg.Scheduler, store, log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()

		if err := sched.RunOnce(ctx); err != nil {
			log.Warn("Initial maintenance run failed", zap.Error(err))
		}
	}

	var apiOpts []api.Option
	if sched != nil {
		apiOpts = append(apiOpts, api.WithMaintenance(sched))
	}
	httpServer, err := api.NewServer(cfg, store, log, apiOpts...)
	if err != nil {
		return fmt.Errorf("failed to create admin server: %w", err)
	}

	listen := s.listen
	if listen == nil {
		lc, err := qos.ListenConfig(cfg.Server.DSCP, log)
		if err != nil {
			return err
		}
		listen = lc.Listen
	}

	ln, err := listen(ctx, "tcp", cfg.Server.Listen())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Listen(), err)
	}
	if s.ready != nil {
		s.ready <- ln.Addr().String()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	fields := []zap.Field{
		zap.String("listen", ln.Addr().String()),
		zap.String("config", cfg.Path()),
		zap.Bool("scheduler", sched != nil && sched.IsRunning()),
		zap.Bool("auth", cfg.Server.Auth.Username != ""),
		zap.Int("dscp", cfg.Server.DSCP),
	}
	if sched != nil {
		if next, ok := sched.NextRun(); ok {
			fields = append(fields, zap.Time("next_maintenance", next))
		}
	}
	log.Info("gurtdns started", fields...)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	return <-errCh
}

// initDomainMetrics seeds the domain gauges from storage so they are correct
// before the first maintenance run.
func initDomainMetrics(ctx context.Context, store storage.Storage, log *zap.Logger) {
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		log.Warn("Failed to load domain counts for metrics", zap.Error(err))
		return
	}
	api.UpdateDomainMetrics(counts)

	log.Debug("Domain metrics initialized", zap.Any("counts", counts))
}
