package http

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"servicedesk/internal/core/application/usecases/commands"
	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	defaultTopN           = 3
	exportBufferSize      = 32 * 1024
	publishTimeout        = 5 * time.Second
	DefaultStaleThreshold = 48
)

// Use case contracts the server depends on. The concrete handlers from the
// commands and queries packages satisfy them.
type (
	OrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]*history.StatusTransition, error)
	}
	OrderTimelineHandler interface {
		Handle(ctx context.Context, query queries.GetOrderTimelineQuery) (services.Timeline, error)
	}
	NextStatusesHandler interface {
		Handle(ctx context.Context, query queries.GetNextStatusesQuery) (queries.GetNextStatusesQueryResponse, error)
	}
	ValidateTransitionHandler interface {
		Handle(query queries.ValidateTransitionQuery) (queries.ValidateTransitionQueryResponse, error)
	}
	WorkflowStatsHandler interface {
		Handle(ctx context.Context, query queries.GetWorkflowStatsQuery) (services.WorkflowStats, error)
	}
	BottlenecksHandler interface {
		Handle(ctx context.Context, query queries.GetBottlenecksQuery) (services.Bottlenecks, error)
	}
	ProductivityHandler interface {
		Handle(ctx context.Context, query queries.GetOperatorProductivityQuery) (services.OperatorProductivity, error)
	}
	StaleOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetStaleOrdersQuery) (queries.StaleOrdersReport, error)
	}
	ExportHistoryHandler interface {
		Handle(ctx context.Context, query queries.ExportHistoryQuery, w io.Writer) error
	}
	PurgeHistoryHandler interface {
		Handle(ctx context.Context, cmd commands.PurgeHistoryCommand) (ports.PurgeResult, error)
	}

	// TransitionObserver records the outcome of every transition request.
	TransitionObserver interface {
		ObserveTransition(to order.Status, err error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	Transition         commands.TransitionHandler
	PurgeHistory       PurgeHistoryHandler
	OrderHistory       OrderHistoryHandler
	OrderTimeline      OrderTimelineHandler
	NextStatuses       NextStatusesHandler
	ValidateTransition ValidateTransitionHandler
	WorkflowStats      WorkflowStatsHandler
	Bottlenecks        BottlenecksHandler
	Productivity       ProductivityHandler
	StaleOrders        StaleOrdersHandler
	ExportHistory      ExportHistoryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers

	// publisher and observer are optional
	publisher ports.StatusChangePublisher
	observer  TransitionObserver

	staleThresholdHours int
	logger              *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server. publisher receives committed changes
// into customer-facing statuses; observer counts transition outcomes. Both
// may be nil.
func NewServer(
	handlers Handlers,
	publisher ports.StatusChangePublisher,
	observer TransitionObserver,
	staleThresholdHours int,
	logger *slog.Logger,
) *Server {
	if staleThresholdHours < 1 {
		staleThresholdHours = DefaultStaleThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers:            handlers,
		publisher:           publisher,
		observer:            observer,
		staleThresholdHours: staleThresholdHours,
		logger:              logger.With("component", "http-server"),
	}
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context, orderId servers.OrderId) error {
	var body servers.NewTransition
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := toKernelUUID(orderId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	actorID, err := toKernelUUID(body.ActorId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	to, err := order.ParseStatus(string(body.ToStatus))
	if err != nil {
		return errorResponse(ctx, err)
	}
	var expected *order.Status
	if body.ExpectedStatus != nil {
		parsed, parseErr := order.ParseStatus(string(*body.ExpectedStatus))
		if parseErr != nil {
			return errorResponse(ctx, parseErr)
		}
		expected = &parsed
	}
	var reason string
	if body.Reason != nil {
		reason = *body.Reason
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, to, reason, actorID, expected)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entry, err := s.handlers.Transition.Handle(ctx.Request().Context(), cmd)
	if s.observer != nil {
		s.observer.ObserveTransition(to, err)
	}
	if err != nil {
		s.logger.InfoContext(ctx.Request().Context(), "transition rejected",
			"order_id", orderID.String(), "to_status", to.String(), "error", err)
		return errorResponse(ctx, err)
	}

	s.publish(ctx.Request().Context(), entry)

	return ctx.JSON(http.StatusCreated, toTransition(entry))
}

// publish hands a committed change to the notification pipeline. The
// transition is already durable, so a failed publish is logged, not returned.
func (s *Server) publish(ctx context.Context, entry *history.StatusTransition) {
	if s.publisher == nil || !order.IsNotifiable(entry.To()) {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish status change",
			"order_id", entry.OrderID().String(), "to_status", entry.To().String(), "error", err)
	}
}

// GetOrderHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context, orderId servers.OrderId) error {
	orderID, err := toKernelUUID(orderId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entries, err := s.handlers.OrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]servers.Transition, len(entries))
	for i, e := range entries {
		response[i] = toTransition(e)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderTimeline handles GET /api/v1/orders/{orderId}/timeline.
func (s *Server) GetOrderTimeline(ctx echo.Context, orderId servers.OrderId) error {
	orderID, err := toKernelUUID(orderId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	query, err := queries.NewGetOrderTimelineQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	timeline, err := s.handlers.OrderTimeline.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := servers.Timeline{
		OrderId:                timeline.OrderID.Bytes(),
		Active:                 timeline.Active,
		TotalProcessingSeconds: float32(timeline.TotalProcessingTime.Seconds()),
		Entries:                make([]servers.TimelineEntry, len(timeline.Entries)),
	}
	for i, e := range timeline.Entries {
		response.Entries[i] = servers.TimelineEntry{
			Status:       toAPIStatus(e.Status),
			EnteredAt:    e.EnteredAt,
			LeftAt:       e.LeftAt,
			DwellSeconds: float32(e.DwellSeconds()),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetNextStatuses handles GET /api/v1/orders/{orderId}/next-statuses.
func (s *Server) GetNextStatuses(ctx echo.Context, orderId servers.OrderId) error {
	orderID, err := toKernelUUID(orderId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	query, err := queries.NewGetNextStatusesQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.handlers.NextStatuses.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := servers.NextStatuses{Next: toAPIStatuses(result.Next)}
	if result.Current != order.Unknown {
		current := toAPIStatus(result.Current)
		response.Current = &current
	}
	return ctx.JSON(http.StatusOK, response)
}

// ValidateTransition handles GET /api/v1/transitions/validate.
func (s *Server) ValidateTransition(ctx echo.Context, params servers.ValidateTransitionParams) error {
	from := order.Unknown
	if params.From != nil {
		parsed, err := order.ParseStatus(string(*params.From))
		if err != nil {
			return errorResponse(ctx, err)
		}
		from = parsed
	}
	to, err := order.ParseStatus(string(params.To))
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.handlers.ValidateTransition.Handle(queries.NewValidateTransitionQuery(from, to))
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := servers.TransitionValidation{Valid: result.Valid}
	if !result.Valid {
		reason := result.Reason
		response.Reason = &reason
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetWorkflowStats handles GET /api/v1/analytics/stats.
func (s *Server) GetWorkflowStats(ctx echo.Context, params servers.GetWorkflowStatsParams) error {
	window, err := history.NewWindow(params.From, params.To)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var filter services.StatsFilter
	if params.Status != nil {
		status, parseErr := order.ParseStatus(string(*params.Status))
		if parseErr != nil {
			return errorResponse(ctx, parseErr)
		}
		filter.Status = &status
	}
	if params.ActorId != nil {
		actorID, parseErr := toKernelUUID(*params.ActorId)
		if parseErr != nil {
			return errorResponse(ctx, parseErr)
		}
		filter.ActorID = &actorID
	}

	query, err := queries.NewGetWorkflowStatsQuery(window, filter)
	if err != nil {
		return errorResponse(ctx, err)
	}

	stats, err := s.handlers.WorkflowStats.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := servers.WorkflowStats{
		From:              stats.Window.From,
		To:                stats.Window.To,
		CountsByStatus:    make(map[string]int, len(stats.CountsByStatus)),
		CountsByActor:     make(map[string]int, len(stats.CountsByActor)),
		DwellByStatus:     toStatusDwells(stats.DwellByStatus),
		DwellByTransition: toTransitionDwells(stats.DwellByTransition),
		MalformedEntries:  stats.MalformedEntries,
	}
	for status, n := range stats.CountsByStatus {
		response.CountsByStatus[status.String()] = n
	}
	for actorID, n := range stats.CountsByActor {
		response.CountsByActor[actorID.String()] = n
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetBottlenecks handles GET /api/v1/analytics/bottlenecks.
func (s *Server) GetBottlenecks(ctx echo.Context, params servers.GetBottlenecksParams) error {
	window, err := history.NewWindow(params.From, params.To)
	if err != nil {
		return errorResponse(ctx, err)
	}
	topN := defaultTopN
	if params.TopN != nil {
		topN = *params.TopN
	}

	query, err := queries.NewGetBottlenecksQuery(window, topN)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.handlers.Bottlenecks.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Bottlenecks{
		Statuses:    toStatusDwells(result.Statuses),
		Transitions: toTransitionDwells(result.Transitions),
	})
}

// GetOperatorProductivity handles GET /api/v1/analytics/operators/{actorId}/productivity.
func (s *Server) GetOperatorProductivity(
	ctx echo.Context,
	actorId openapi_types.UUID,
	params servers.GetOperatorProductivityParams,
) error {
	actorID, err := toKernelUUID(actorId)
	if err != nil {
		return errorResponse(ctx, err)
	}
	window, err := history.NewWindow(params.From, params.To)
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewGetOperatorProductivityQuery(actorID, window)
	if err != nil {
		return errorResponse(ctx, err)
	}

	p, err := s.handlers.Productivity.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.OperatorProductivity{
		ActorId:                  p.ActorID.Bytes(),
		DisplayName:              p.DisplayName,
		From:                     p.Window.From,
		To:                       p.Window.To,
		TransitionsAuthored:      p.TransitionsAuthored,
		Completions:              p.Completions,
		Cancellations:            p.Cancellations,
		CompletedOrders:          p.CompletedOrders,
		AverageProcessingSeconds: float32(p.AverageProcessingTime.Seconds()),
	})
}

// GetStaleOrders handles GET /api/v1/analytics/stale-orders.
func (s *Server) GetStaleOrders(ctx echo.Context, params servers.GetStaleOrdersParams) error {
	threshold := s.staleThresholdHours
	if params.ThresholdHours != nil {
		threshold = *params.ThresholdHours
	}

	query, err := queries.NewGetStaleOrdersQuery(threshold)
	if err != nil {
		return errorResponse(ctx, err)
	}

	report, err := s.handlers.StaleOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := servers.StaleOrders{
		Orders:           make([]servers.StaleOrder, len(report.Orders)),
		MalformedEntries: report.Malformed,
	}
	for i, o := range report.Orders {
		response.Orders[i] = servers.StaleOrder{
			OrderId:          o.OrderID.Bytes(),
			Status:           toAPIStatus(o.Status),
			LastTransitionAt: o.LastTransitionAt,
			StalenessHours:   float32(o.Staleness.Hours()),
			Priority:         servers.StaleOrderPriority(o.Priority),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// ExportHistory handles GET /api/v1/history/export. The body is streamed;
// errors are still reported as JSON as long as nothing was flushed yet.
func (s *Server) ExportHistory(ctx echo.Context, params servers.ExportHistoryParams) error {
	window, err := history.NewWindow(params.From, params.To)
	if err != nil {
		return errorResponse(ctx, err)
	}

	format := queries.ExportFormatJSON
	if params.Format != nil {
		format, err = queries.ParseExportFormat(string(*params.Format))
		if err != nil {
			return errorResponse(ctx, err)
		}
	}

	var status *order.Status
	if params.Status != nil {
		parsed, parseErr := order.ParseStatus(string(*params.Status))
		if parseErr != nil {
			return errorResponse(ctx, parseErr)
		}
		status = &parsed
	}

	query, err := queries.NewExportHistoryQuery(window, format, status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, format.ContentType())
	buf := bufio.NewWriterSize(res, exportBufferSize)

	if err = s.handlers.ExportHistory.Handle(ctx.Request().Context(), query, buf); err != nil {
		if !res.Committed {
			res.Header().Del(echo.HeaderContentType)
			return errorResponse(ctx, err)
		}
		s.logger.ErrorContext(ctx.Request().Context(), "history export aborted mid-stream", "error", err)
		return nil
	}
	return buf.Flush()
}

// PurgeHistory handles POST /api/v1/history/purge.
func (s *Server) PurgeHistory(ctx echo.Context) error {
	var body servers.PurgeRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewPurgeHistoryCommand(body.OlderThan)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.handlers.PurgeHistory.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	s.logger.InfoContext(ctx.Request().Context(), "history purged",
		"older_than", body.OlderThan, "orders", result.Orders, "entries", result.Entries)

	return ctx.JSON(http.StatusOK, servers.PurgeResult{
		Orders:  result.Orders,
		Entries: result.Entries,
	})
}

func toKernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toAPIStatus(s order.Status) servers.OrderStatus {
	return servers.OrderStatus(s.String())
}

func toAPIStatuses(statuses []order.Status) []servers.OrderStatus {
	out := make([]servers.OrderStatus, len(statuses))
	for i, st := range statuses {
		out[i] = toAPIStatus(st)
	}
	return out
}

func toTransition(e *history.StatusTransition) servers.Transition {
	t := servers.Transition{
		Id:         e.ID().Bytes(),
		OrderId:    e.OrderID().Bytes(),
		ToStatus:   toAPIStatus(e.To()),
		Reason:     e.Reason(),
		ActorId:    e.ActorID().Bytes(),
		OccurredAt: e.OccurredAt(),
	}
	if !e.IsInitial() {
		from := toAPIStatus(e.From())
		t.FromStatus = &from
	}
	return t
}

func toStatusDwells(dwells []services.StatusDwell) []servers.StatusDwell {
	out := make([]servers.StatusDwell, len(dwells))
	for i, d := range dwells {
		out[i] = servers.StatusDwell{
			Status:         toAPIStatus(d.Status),
			Count:          d.Count,
			AverageSeconds: float32(d.Average.Seconds()),
		}
	}
	return out
}

func toTransitionDwells(dwells []services.TransitionDwell) []servers.TransitionDwell {
	out := make([]servers.TransitionDwell, len(dwells))
	for i, d := range dwells {
		out[i] = servers.TransitionDwell{
			FromStatus:     toAPIStatus(d.From),
			ToStatus:       toAPIStatus(d.To),
			Count:          d.Count,
			AverageSeconds: float32(d.Average.Seconds()),
		}
	}
	return out
}
