package cmd

import (
	"log/slog"
	"time"

	httpadapter "servicedesk/internal/adapters/in/http"
	"servicedesk/internal/adapters/out/postgres"
	"servicedesk/internal/adapters/out/postgres/actorrepo"
	"servicedesk/internal/adapters/out/postgres/historyrepo"
	"servicedesk/internal/adapters/out/postgres/orderrepo"
	"servicedesk/internal/core/application/usecases/commands"
	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	orders     ports.OrderRepository
	ledger     ports.HistoryLedger
	actors     ports.ActorDirectory

	// locker is nil when no Redis is configured
	locker ports.OrderLocker
	logger *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, locker ports.OrderLocker, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		orders:     orderrepo.NewGormOrderRepository(gormDB),
		ledger:     historyrepo.NewGormHistoryLedger(gormDB),
		actors:     actorrepo.NewGormActorDirectory(gormDB),
		locker:     locker,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewTransitionOrderCommandHandler(f, c.locker, time.Now)
	return commands.NewRetryingTransitionHandler(handler,
		commands.DefaultTransitionAttempts, commands.DefaultTransitionInitialInterval)
}

func (c *CompositionRoot) CreatePurgeHistoryCommandHandler() commands.PurgeHistoryCommandHandler {
	var f commands.LedgerUoWFactory = FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurgeHistoryCommandHandler(f, commands.DefaultProtectedRetention, time.Now)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.orders, c.ledger)
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(c.orders, c.ledger, time.Now)
}

func (c *CompositionRoot) CreateGetNextStatusesQueryHandler() queries.GetNextStatusesQueryHandler {
	return queries.NewGetNextStatusesQueryHandler(c.orders, c.ledger)
}

func (c *CompositionRoot) CreateValidateTransitionQueryHandler() queries.ValidateTransitionQueryHandler {
	return queries.NewValidateTransitionQueryHandler()
}

func (c *CompositionRoot) CreateGetWorkflowStatsQueryHandler() queries.GetWorkflowStatsQueryHandler {
	return queries.NewGetWorkflowStatsQueryHandler(c.orders, c.ledger, c.config.AnalyticsBatchSize)
}

func (c *CompositionRoot) CreateGetBottlenecksQueryHandler() queries.GetBottlenecksQueryHandler {
	return queries.NewGetBottlenecksQueryHandler(c.orders, c.ledger, c.config.AnalyticsBatchSize)
}

func (c *CompositionRoot) CreateGetOperatorProductivityQueryHandler() queries.GetOperatorProductivityQueryHandler {
	return queries.NewGetOperatorProductivityQueryHandler(c.ledger, c.actors)
}

func (c *CompositionRoot) CreateGetStaleOrdersQueryHandler() queries.GetStaleOrdersQueryHandler {
	return queries.NewGetStaleOrdersQueryHandler(c.orders, c.ledger, time.Now, c.config.AnalyticsBatchSize)
}

func (c *CompositionRoot) CreateExportHistoryQueryHandler() queries.ExportHistoryQueryHandler {
	return queries.NewExportHistoryQueryHandler(c.ledger, c.config.AnalyticsBatchSize)
}

// CreateHTTPServer wires every use case into the HTTP adapter. publisher and
// observer may be nil.
func (c *CompositionRoot) CreateHTTPServer(
	publisher ports.StatusChangePublisher,
	observer httpadapter.TransitionObserver,
) *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		Transition:         c.CreateTransitionOrderCommandHandler(),
		PurgeHistory:       c.CreatePurgeHistoryCommandHandler(),
		OrderHistory:       c.CreateGetOrderHistoryQueryHandler(),
		OrderTimeline:      c.CreateGetOrderTimelineQueryHandler(),
		NextStatuses:       c.CreateGetNextStatusesQueryHandler(),
		ValidateTransition: c.CreateValidateTransitionQueryHandler(),
		WorkflowStats:      c.CreateGetWorkflowStatsQueryHandler(),
		Bottlenecks:        c.CreateGetBottlenecksQueryHandler(),
		Productivity:       c.CreateGetOperatorProductivityQueryHandler(),
		StaleOrders:        c.CreateGetStaleOrdersQueryHandler(),
		ExportHistory:      c.CreateExportHistoryQueryHandler(),
	}, publisher, observer, c.config.StaleThresholdHours, c.logger)
}

// CreateJobManager wires the background jobs. metrics may be nil.
func (c *CompositionRoot) CreateJobManager(metrics jobs.JobMetrics) *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetStaleOrdersQueryHandler(),
		c.CreatePurgeHistoryCommandHandler(),
		metrics,
		c.config.JobSettings(),
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}
