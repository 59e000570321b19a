package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"servicedesk/internal/core/application/usecases/commands"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultRetentionSchedule runs the purge every night at 03:00.
const DefaultRetentionSchedule = "0 0 3 * * *"

// HistoryPurger runs the purge command.
type HistoryPurger interface {
	Handle(ctx context.Context, cmd commands.PurgeHistoryCommand) (ports.PurgeResult, error)
}

// PurgeRecorder receives what every purge removed.
type PurgeRecorder interface {
	AddPurged(result ports.PurgeResult)
}

// HistoryRetentionJob drops the histories of finished orders older than the
// retention period.
type HistoryRetentionJob struct {
	purger    HistoryPurger
	recorder  PurgeRecorder
	retention time.Duration
	clock     func() time.Time
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewHistoryRetentionJob creates the job. recorder may be nil.
func NewHistoryRetentionJob(
	purger HistoryPurger,
	recorder PurgeRecorder,
	retentionDays int,
	schedule string,
	clock func() time.Time,
	logger *slog.Logger,
) *HistoryRetentionJob {
	if schedule == "" {
		schedule = DefaultRetentionSchedule
	}
	if clock == nil {
		clock = time.Now
	}
	return &HistoryRetentionJob{
		purger:    purger,
		recorder:  recorder,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		clock:     clock,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "history_retention_job"),
	}
}

// Start schedules the purge.
func (j *HistoryRetentionJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			// A retention period shorter than the protected window is a config problem.
			if errors.Is(err, errs.ErrRetentionPolicy) {
				j.logger.WarnContext(ctx, "History purge refused", "error", err)
				return
			}
			j.logger.ErrorContext(ctx, "History purge failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "History retention job started",
		"schedule", j.schedule, "retention", j.retention.String())
	return nil
}

// Run performs one purge.
func (j *HistoryRetentionJob) Run(ctx context.Context) error {
	cutoff := j.clock().Add(-j.retention)
	cmd, err := commands.NewPurgeHistoryCommand(cutoff)
	if err != nil {
		return err
	}

	result, err := j.purger.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	if j.recorder != nil {
		j.recorder.AddPurged(result)
	}
	j.logger.InfoContext(ctx, "History purged",
		"cutoff", cutoff, "orders", result.Orders, "entries", result.Entries)
	return nil
}

// Stop stops the purge.
func (j *HistoryRetentionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "History retention job stopped")
}
