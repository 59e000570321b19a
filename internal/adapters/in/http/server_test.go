package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "servicedesk/internal/adapters/in/http"
	"servicedesk/internal/core/application/usecases/commands"
	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/generated/servers"
	"servicedesk/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*history.StatusTransition, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.StatusTransition), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, entry *history.StatusTransition) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockObserver struct{ mock.Mock }

func (m *MockObserver) ObserveTransition(to order.Status, err error) {
	m.Called(to, err)
}

type MockOrderHistoryHandler struct{ mock.Mock }

func (m *MockOrderHistoryHandler) Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]*history.StatusTransition, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.StatusTransition), args.Error(1)
}

type MockNextStatusesHandler struct{ mock.Mock }

func (m *MockNextStatusesHandler) Handle(
	ctx context.Context, query queries.GetNextStatusesQuery,
) (queries.GetNextStatusesQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetNextStatusesQueryResponse), args.Error(1)
}

type MockStaleOrdersHandler struct{ mock.Mock }

func (m *MockStaleOrdersHandler) Handle(ctx context.Context, query queries.GetStaleOrdersQuery) (queries.StaleOrdersReport, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.StaleOrdersReport), args.Error(1)
}

type MockPurgeHistoryHandler struct{ mock.Mock }

func (m *MockPurgeHistoryHandler) Handle(ctx context.Context, cmd commands.PurgeHistoryCommand) (ports.PurgeResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(ports.PurgeResult), args.Error(1)
}

type exportFunc func(ctx context.Context, query queries.ExportHistoryQuery, w io.Writer) error

func (f exportFunc) Handle(ctx context.Context, query queries.ExportHistoryQuery, w io.Writer) error {
	return f(ctx, query, w)
}

type testServer struct {
	echo       *echo.Echo
	transition *MockTransitionHandler
	publisher  *MockPublisher
	observer   *MockObserver
	handlers   httpadapter.Handlers
}

func newTestServer(t *testing.T, configure func(h *httpadapter.Handlers)) testServer {
	t.Helper()

	ts := testServer{
		echo:       echo.New(),
		transition: &MockTransitionHandler{},
		publisher:  &MockPublisher{},
		observer:   &MockObserver{},
	}
	ts.handlers = httpadapter.Handlers{
		Transition:         ts.transition,
		ValidateTransition: queries.NewValidateTransitionQueryHandler(),
	}
	if configure != nil {
		configure(&ts.handlers)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httpadapter.NewServer(ts.handlers, ts.publisher, ts.observer, 48, logger)
	servers.RegisterHandlers(ts.echo, server)
	return ts
}

func (ts testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var at = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func TestServer_TransitionOrder(t *testing.T) {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	target := "/api/v1/orders/" + orderID.String() + "/transitions"

	t.Run("committed change into a notifiable status is published", func(t *testing.T) {
		ts := newTestServer(t, nil)
		entry, err := history.NewStatusTransition(orderID, order.Testing, order.ReadyForPickup, "Passed QA", actorID, at)
		require.NoError(t, err)

		ts.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
			return cmd.OrderID() == orderID && cmd.ToStatus() == order.ReadyForPickup && cmd.Reason() == "Passed QA"
		})).Return(entry, nil).Once()
		ts.observer.On("ObserveTransition", order.ReadyForPickup, nil).Once()
		ts.publisher.On("Publish", mock.Anything, entry).Return(nil).Once()

		rec := ts.do(http.MethodPost, target,
			`{"toStatus":"READY_FOR_PICKUP","actorId":"`+actorID.String()+`","reason":"Passed QA"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body servers.Transition
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, servers.READYFORPICKUP, body.ToStatus)
		require.NotNil(t, body.FromStatus)
		assert.Equal(t, servers.TESTING, *body.FromStatus)
		assert.Equal(t, orderID.Bytes(), body.OrderId)
		assert.True(t, at.Equal(body.OccurredAt))

		ts.transition.AssertExpectations(t)
		ts.observer.AssertExpectations(t)
		ts.publisher.AssertExpectations(t)
	})

	t.Run("internal status is not published", func(t *testing.T) {
		ts := newTestServer(t, nil)
		entry, err := history.NewStatusTransition(orderID, order.Received, order.Diagnosing, "", actorID, at)
		require.NoError(t, err)

		ts.transition.On("Handle", mock.Anything, mock.Anything).Return(entry, nil).Once()
		ts.observer.On("ObserveTransition", order.Diagnosing, nil).Once()

		rec := ts.do(http.MethodPost, target, `{"toStatus":"DIAGNOSING","actorId":"`+actorID.String()+`"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		ts.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("publish failure is logged only", func(t *testing.T) {
		ts := newTestServer(t, nil)
		entry, err := history.NewStatusTransition(orderID, order.ReadyForPickup, order.Delivered, "", actorID, at)
		require.NoError(t, err)

		ts.transition.On("Handle", mock.Anything, mock.Anything).Return(entry, nil).Once()
		ts.observer.On("ObserveTransition", order.Delivered, nil).Once()
		ts.publisher.On("Publish", mock.Anything, entry).Return(errors.New("broker down")).Once()

		rec := ts.do(http.MethodPost, target, `{"toStatus":"DELIVERED","actorId":"`+actorID.String()+`"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		ts.publisher.AssertExpectations(t)
	})

	t.Run("expected status is passed through", func(t *testing.T) {
		ts := newTestServer(t, nil)
		cm := errs.NewConcurrentModificationError("order", orderID, "DIAGNOSING", "REPAIRING")

		ts.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
			return cmd.ExpectedStatus() != nil && *cmd.ExpectedStatus() == order.Diagnosing
		})).Return(nil, cm).Once()
		ts.observer.On("ObserveTransition", order.AwaitingParts, cm).Once()

		rec := ts.do(http.MethodPost, target,
			`{"toStatus":"AWAITING_PARTS","expectedStatus":"DIAGNOSING","actorId":"`+actorID.String()+`"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, http.StatusConflict, decodeError(t, rec).Code)
		ts.transition.AssertExpectations(t)
		ts.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("core errors map to status codes", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"invalid transition", errs.NewInvalidTransitionError("CANCELLED", "REPAIRING"), http.StatusUnprocessableEntity},
			{"order not found", errs.NewObjectNotFoundError("orderID", orderID), http.StatusNotFound},
			{"no-op", errs.NewValueIsInvalidError("status"), http.StatusBadRequest},
			{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ts := newTestServer(t, nil)
				ts.transition.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()
				ts.observer.On("ObserveTransition", order.Repairing, tt.err).Once()

				rec := ts.do(http.MethodPost, target, `{"toStatus":"REPAIRING","actorId":"`+actorID.String()+`"}`)

				assert.Equal(t, tt.want, rec.Code)
				body := decodeError(t, rec)
				assert.Equal(t, tt.want, body.Code)
				if tt.want == http.StatusInternalServerError {
					assert.NotContains(t, body.Message, "connection reset")
				}
			})
		}
	})

	t.Run("unknown target status never reaches the handler", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(http.MethodPost, target, `{"toStatus":"SHIPPED","actorId":"`+actorID.String()+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ts.transition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("malformed order id", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(http.MethodPost, "/api/v1/orders/not-a-uuid/transitions",
			`{"toStatus":"REPAIRING","actorId":"`+actorID.String()+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetOrderHistory(t *testing.T) {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	historyHandler := &MockOrderHistoryHandler{}
	ts := newTestServer(t, func(h *httpadapter.Handlers) { h.OrderHistory = historyHandler })

	seed, err := history.NewStatusTransition(orderID, order.Unknown, order.Received, "", actorID, at)
	require.NoError(t, err)
	next, err := history.NewStatusTransition(orderID, order.Received, order.Diagnosing, "", actorID, at.Add(time.Hour))
	require.NoError(t, err)

	historyHandler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderHistoryQuery) bool {
		return q.OrderID() == orderID
	})).Return([]*history.StatusTransition{seed, next}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/history", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []servers.Transition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Nil(t, body[0].FromStatus)
	assert.Equal(t, servers.RECEIVED, body[0].ToStatus)
	assert.Equal(t, servers.DIAGNOSING, body[1].ToStatus)

	missing := kernel.NewUUID()
	historyHandler.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("orderID", missing)).Once()

	rec = ts.do(http.MethodGet, "/api/v1/orders/"+missing.String()+"/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_GetNextStatuses(t *testing.T) {
	next := &MockNextStatusesHandler{}
	ts := newTestServer(t, func(h *httpadapter.Handlers) { h.NextStatuses = next })

	next.On("Handle", mock.Anything, mock.Anything).Return(queries.GetNextStatusesQueryResponse{
		Current: order.Unknown,
		Next:    []order.Status{order.Received},
	}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String()+"/next-statuses", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body servers.NextStatuses
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Current)
	assert.Equal(t, []servers.OrderStatus{servers.RECEIVED}, body.Next)
}

func TestServer_ValidateTransition(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name      string
		query     string
		wantValid bool
	}{
		{"seeding edge", "to=RECEIVED", true},
		{"graph edge", "from=DIAGNOSING&to=AWAITING_PARTS", true},
		{"missing edge", "from=DELIVERED&to=RECEIVED", false},
		{"no-op", "from=REPAIRING&to=REPAIRING", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodGet, "/api/v1/transitions/validate?"+tt.query, "")

			require.Equal(t, http.StatusOK, rec.Code)
			var body servers.TransitionValidation
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantValid, body.Valid)
			if tt.wantValid {
				assert.Nil(t, body.Reason)
			} else {
				require.NotNil(t, body.Reason)
				assert.NotEmpty(t, *body.Reason)
			}
		})
	}

	t.Run("unknown status is a bad request", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/v1/transitions/validate?to=SHIPPED", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_AnalyticsValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("window with from after to", func(t *testing.T) {
		rec := ts.do(http.MethodGet,
			"/api/v1/analytics/stats?from=2026-05-05T00:00:00Z&to=2026-05-04T00:00:00Z", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("topN below one", func(t *testing.T) {
		rec := ts.do(http.MethodGet,
			"/api/v1/analytics/bottlenecks?from=2026-05-04T00:00:00Z&to=2026-05-05T00:00:00Z&topN=0", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing window bound", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/v1/analytics/stats?from=2026-05-04T00:00:00Z", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetStaleOrders(t *testing.T) {
	stale := &MockStaleOrdersHandler{}
	ts := newTestServer(t, func(h *httpadapter.Handlers) { h.StaleOrders = stale })
	orderID := kernel.NewUUID()

	stale.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetStaleOrdersQuery) bool {
		return q.Threshold() == 48*time.Hour
	})).Return(queries.StaleOrdersReport{
		Orders: []services.StaleOrder{{
			OrderID:          orderID,
			Status:           order.AwaitingParts,
			LastTransitionAt: at,
			Staleness:        100 * time.Hour,
			Priority:         services.StalePriorityHigh,
		}},
		Malformed: 2,
	}, nil).Once()

	rec := ts.do(http.MethodGet, "/api/v1/analytics/stale-orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body servers.StaleOrders
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.MalformedEntries)
	require.Len(t, body.Orders, 1)
	assert.Equal(t, servers.High, body.Orders[0].Priority)
	assert.Equal(t, servers.AWAITINGPARTS, body.Orders[0].Status)
	assert.InDelta(t, 100, body.Orders[0].StalenessHours, 0.001)
	stale.AssertExpectations(t)

	rec = ts.do(http.MethodGet, "/api/v1/analytics/stale-orders?thresholdHours=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ExportHistory(t *testing.T) {
	const window = "from=2026-05-04T00:00:00Z&to=2026-05-05T00:00:00Z"

	t.Run("csv body is streamed with its content type", func(t *testing.T) {
		ts := newTestServer(t, func(h *httpadapter.Handlers) {
			h.ExportHistory = exportFunc(func(_ context.Context, q queries.ExportHistoryQuery, w io.Writer) error {
				assert.Equal(t, queries.ExportFormatCSV, q.Format())
				require.NotNil(t, q.Status())
				assert.Equal(t, order.Delivered, *q.Status())
				_, err := io.WriteString(w, "order_id,from_status,to_status,reason,actor_id,occurred_at\n")
				return err
			})
		})

		rec := ts.do(http.MethodGet, "/api/v1/history/export?"+window+"&format=csv&status=DELIVERED", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "order_id,"))
	})

	t.Run("failure before anything was flushed is reported as json", func(t *testing.T) {
		ts := newTestServer(t, func(h *httpadapter.Handlers) {
			h.ExportHistory = exportFunc(func(_ context.Context, _ queries.ExportHistoryQuery, w io.Writer) error {
				_, _ = io.WriteString(w, "[")
				return errors.New("ledger unavailable")
			})
		})

		rec := ts.do(http.MethodGet, "/api/v1/history/export?"+window, "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, http.StatusInternalServerError, decodeError(t, rec).Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(http.MethodGet, "/api/v1/history/export?"+window+"&format=xml", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_PurgeHistory(t *testing.T) {
	purge := &MockPurgeHistoryHandler{}
	ts := newTestServer(t, func(h *httpadapter.Handlers) { h.PurgeHistory = purge })
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	purge.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PurgeHistoryCommand) bool {
		return cmd.OlderThan().Equal(cutoff)
	})).Return(ports.PurgeResult{Orders: 2, Entries: 9}, nil).Once()

	rec := ts.do(http.MethodPost, "/api/v1/history/purge", `{"olderThan":"2024-01-01T00:00:00Z"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body servers.PurgeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, servers.PurgeResult{Orders: 2, Entries: 9}, body)

	recent := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	purge.On("Handle", mock.Anything, mock.Anything).
		Return(ports.PurgeResult{}, errs.NewRetentionPolicyError(recent, recent.AddDate(-1, 0, 0))).Once()

	rec = ts.do(http.MethodPost, "/api/v1/history/purge", `{"olderThan":"2026-05-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	purge.AssertExpectations(t)
}
