// Package scheduler runs registry maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/api"
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/storage"
)

// Scheduler owns the cron instance driving the maintenance job.
type Scheduler struct {
	cfg    config.SchedulerConfig
	job    *MaintenanceJob
	logger *zap.Logger

	mu    sync.Mutex
	cron  *cron.Cron
	entry cron.EntryID
}

var _ api.MaintenanceReporter = (*Scheduler)(nil)

// NewScheduler creates a scheduler for the maintenance job. It does not start it.
func NewScheduler(cfg *config.SchedulerConfig, store storage.Storage, logger *zap.Logger) (*Scheduler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scheduler config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	retention, err := cfg.Retention()
	if err != nil {
		return nil, fmt.Errorf("invalid pending retention: %w", err)
	}

	logger = logger.Named("scheduler")
	return &Scheduler{
		cfg:    *cfg,
		job:    NewMaintenanceJob(store, retention, logger),
		logger: logger,
	}, nil
}

// Start registers the job and starts the cron loop. A disabled scheduler
// starts as a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already running")
	}
	if !s.cfg.Enabled {
		s.logger.Info("Scheduler is disabled in configuration")
		return nil
	}

	clog := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	id, err := c.AddJob(s.cfg.Schedule, s.job)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w (schedule: %s)", err, s.cfg.Schedule)
	}

	c.Start()
	s.cron, s.entry = c, id

	s.logger.Info("Scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.Time("next_run", c.Entry(id).Next),
	)
	return nil
}

// Stop halts the cron loop and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the cron loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// NextRun returns the next activation time; ok is false when nothing is scheduled.
func (s *Scheduler) NextRun() (next time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return time.Time{}, false
	}
	return s.cron.Entry(s.entry).Next, true
}

// Status returns a snapshot of the scheduler for the admin API.
func (s *Scheduler) Status() api.MaintenanceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := api.MaintenanceStatus{
		Enabled:  s.cfg.Enabled,
		Running:  s.cron != nil,
		Schedule: s.cfg.Schedule,
	}
	if s.cron != nil {
		e := s.cron.Entry(s.entry)
		if !e.Next.IsZero() {
			st.NextRun = &e.Next
		}
		if !e.Prev.IsZero() {
			st.LastRun = &e.Prev
		}
	}
	return st
}

// RunOnce runs the maintenance job immediately, outside the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.job.RunWithContext(ctx)
}

// cronLogger routes cron's own logging into zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
