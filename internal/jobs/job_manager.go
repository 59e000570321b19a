package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
)

// Settings configures the schedules of the background jobs.
type Settings struct {
	StaleThresholdHours int
	StaleScanSchedule   string
	RetentionDays       int
	RetentionSchedule   string
}

// JobMetrics is what the jobs report to.
type JobMetrics interface {
	SetStaleOrders(stale []services.StaleOrder)
	AddPurged(result ports.PurgeResult)
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleOrderScanJob   *StaleOrderScanJob
	historyRetentionJob *HistoryRetentionJob
}

// NewJobManager creates a new job manager with all required jobs.
// metrics may be nil.
func NewJobManager(
	staleOrdersHandler StaleOrdersFinder,
	purgeHistoryHandler HistoryPurger,
	metrics JobMetrics,
	settings Settings,
	logger *slog.Logger,
) *JobManager {
	var (
		gauge    StaleGauge
		recorder PurgeRecorder
	)
	if metrics != nil {
		gauge, recorder = metrics, metrics
	}
	return &JobManager{
		staleOrderScanJob: NewStaleOrderScanJob(
			staleOrdersHandler, gauge, settings.StaleThresholdHours, settings.StaleScanSchedule, logger),
		historyRetentionJob: NewHistoryRetentionJob(
			purgeHistoryHandler, recorder, settings.RetentionDays, settings.RetentionSchedule, time.Now, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleOrderScanJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale order scan job: %w", err)
	}

	if err := jm.historyRetentionJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.staleOrderScanJob.Stop()
		return fmt.Errorf("failed to start history retention job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.historyRetentionJob.Stop()
	jm.staleOrderScanJob.Stop()
}
