package jobs

import (
	"context"
	"log/slog"

	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DefaultStaleScanSchedule runs the scan every five minutes.
const DefaultStaleScanSchedule = "0 */5 * * * *"

// StaleOrdersFinder runs the stale-order query.
type StaleOrdersFinder interface {
	Handle(ctx context.Context, query queries.GetStaleOrdersQuery) (queries.StaleOrdersReport, error)
}

// StaleGauge receives the result of every scan.
type StaleGauge interface {
	SetStaleOrders(stale []services.StaleOrder)
}

// StaleOrderScanJob periodically looks for active orders that nobody has
// moved for longer than the threshold and reports them.
type StaleOrderScanJob struct {
	finder         StaleOrdersFinder
	gauge          StaleGauge
	thresholdHours int
	schedule       string
	cron           *cron.Cron
	logger         *slog.Logger
}

// NewStaleOrderScanJob creates the job. gauge may be nil.
func NewStaleOrderScanJob(
	finder StaleOrdersFinder,
	gauge StaleGauge,
	thresholdHours int,
	schedule string,
	logger *slog.Logger,
) *StaleOrderScanJob {
	if schedule == "" {
		schedule = DefaultStaleScanSchedule
	}
	return &StaleOrderScanJob{
		finder:         finder,
		gauge:          gauge,
		thresholdHours: thresholdHours,
		schedule:       schedule,
		cron:           cron.New(cron.WithSeconds()),
		logger:         logger.With("component", "stale_order_scan_job"),
	}
}

// Start schedules the scan.
func (j *StaleOrderScanJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stale order scan failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order scan job started",
		"schedule", j.schedule, "threshold_hours", j.thresholdHours)
	return nil
}

// Run performs one scan.
func (j *StaleOrderScanJob) Run(ctx context.Context) error {
	query, err := queries.NewGetStaleOrdersQuery(j.thresholdHours)
	if err != nil {
		return err
	}

	report, err := j.finder.Handle(ctx, query)
	if err != nil {
		return err
	}

	if j.gauge != nil {
		j.gauge.SetStaleOrders(report.Orders)
	}
	if report.Malformed > 0 {
		j.logger.WarnContext(ctx, "Stale order scan skipped malformed entries", "malformed", report.Malformed)
	}
	for _, o := range report.Orders {
		j.logger.WarnContext(ctx, "Order is stale",
			"order_id", o.OrderID.String(),
			"status", o.Status.String(),
			"last_transition_at", o.LastTransitionAt,
			"staleness", o.Staleness.String(),
			"priority", string(o.Priority),
		)
	}
	return nil
}

// Stop stops the scan.
func (j *StaleOrderScanJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order scan job stopped")
}
