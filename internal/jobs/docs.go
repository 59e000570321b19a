// Package jobs provides scheduled background tasks for the service desk.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six-field form with seconds.
//
// # Available Jobs
//
// 1. StaleOrderScanJob - reports active orders idle longer than the threshold
// and refreshes the stale-order gauge
// 2. HistoryRetentionJob - purges the histories of finished orders older than
// the retention period
//
// # Usage
//
//	jobManager := jobs.NewJobManager(staleHandler, purgeHandler, metrics, jobs.Settings{
//		StaleThresholdHours: 48,
//		RetentionDays:       730,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Scan failures are logged and retried on the next tick
// - A purge refused by the retention policy is logged as a warning
// - Failed job starts will stop any already running jobs
package jobs
