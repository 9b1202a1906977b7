package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/api"
	"github.com/lan-dot-party/gurtdns/internal/storage"
)

// MaintenanceJob prunes stale pending registrations and refreshes the domain gauges.
type MaintenanceJob struct {
	storage   storage.Storage
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewMaintenanceJob creates a new maintenance job.
func NewMaintenanceJob(store storage.Storage, retention time.Duration, logger *zap.Logger) *MaintenanceJob {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MaintenanceJob{
		storage:   store,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the maintenance job (implements cron.Job interface).
func (j *MaintenanceJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := j.RunWithContext(ctx); err != nil {
		j.logger.Error("Scheduled maintenance failed", zap.Error(err))
	}
}

// RunWithContext executes the maintenance job with a context.
func (j *MaintenanceJob) RunWithContext(ctx context.Context) error {
	startTime := j.now()
	cutoff := startTime.Add(-j.retention)
	j.logger.Debug("Starting maintenance", zap.Time("cutoff", cutoff))

	pruned, err := j.storage.DeletePendingBefore(ctx, cutoff)
	api.RecordMaintenance(pruned, err)
	if err != nil {
		return fmt.Errorf("failed to prune pending domains: %w", err)
	}
	if pruned > 0 {
		j.logger.Info("Pruned stale pending domains",
			zap.Int64("count", pruned),
			zap.Duration("retention", j.retention),
		)
	}

	counts, err := j.storage.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count domains: %w", err)
	}
	api.UpdateDomainMetrics(counts)

	j.logger.Debug("Maintenance completed",
		zap.Int64("pruned", pruned),
		zap.Duration("duration", j.now().Sub(startTime)),
	)

	return nil
}
