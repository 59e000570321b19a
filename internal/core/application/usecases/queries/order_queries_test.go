package queries_test

import (
	"testing"
	"time"

	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderHistoryQueryHandler_Handle(t *testing.T) {
	orderID := kernel.NewUUID()
	entries := buildLedger(t, orderID,
		step{to: order.Received},
		step{to: order.Diagnosing, at: time.Hour},
	)
	unseeded := kernel.NewUUID()
	handler := queries.NewGetOrderHistoryQueryHandler(
		newFakeOrders(t, orderID, unseeded),
		newFakeLedger(entries, buildLedger(t, kernel.NewUUID(), step{to: order.Received})),
	)

	t.Run("should return the order's entries oldest first", func(t *testing.T) {
		query, err := queries.NewGetOrderHistoryQuery(orderID)
		require.NoError(t, err)

		got, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, order.Received, got[0].To())
		assert.Equal(t, order.Diagnosing, got[1].To())
	})

	t.Run("should return an empty slice before seeding", func(t *testing.T) {
		query, err := queries.NewGetOrderHistoryQuery(unseeded)
		require.NoError(t, err)

		got, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("should report unknown orders", func(t *testing.T) {
		query, err := queries.NewGetOrderHistoryQuery(kernel.NewUUID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should require a constructed query", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), queries.GetOrderHistoryQuery{})
		require.ErrorIs(t, err, queries.ErrGetOrderHistoryQueryIsNotConstructed)

		_, err = queries.NewGetOrderHistoryQuery(kernel.UUID{})
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestGetOrderTimelineQueryHandler_Handle(t *testing.T) {
	orderID := kernel.NewUUID()
	entries := buildLedger(t, orderID,
		step{to: order.Received},
		step{to: order.Diagnosing, at: time.Hour},
		step{to: order.Repairing, at: 5 * time.Hour},
	)
	clock := func() time.Time { return t0.Add(6 * time.Hour) }
	handler := queries.NewGetOrderTimelineQueryHandler(newFakeOrders(t, orderID), newFakeLedger(entries), clock)

	query, err := queries.NewGetOrderTimelineQuery(orderID)
	require.NoError(t, err)

	tl, err := handler.Handle(t.Context(), query)

	require.NoError(t, err)
	require.Len(t, tl.Entries, 3)
	assert.Equal(t, time.Hour, tl.Entries[0].Dwell)
	assert.Equal(t, 4*time.Hour, tl.Entries[1].Dwell)
	assert.True(t, tl.Entries[2].IsOpen())
	assert.Equal(t, time.Hour, tl.Entries[2].Dwell)
	assert.True(t, tl.Active)
	assert.Equal(t, 6*time.Hour, tl.TotalProcessingTime)

	t.Run("unknown order", func(t *testing.T) {
		query, err := queries.NewGetOrderTimelineQuery(kernel.NewUUID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestGetNextStatusesQueryHandler_Handle(t *testing.T) {
	inDiagnosis := kernel.NewUUID()
	cancelled := kernel.NewUUID()
	unseeded := kernel.NewUUID()
	handler := queries.NewGetNextStatusesQueryHandler(
		newFakeOrders(t, inDiagnosis, cancelled, unseeded),
		newFakeLedger(
			buildLedger(t, inDiagnosis, step{to: order.Received}, step{to: order.Diagnosing, at: time.Hour}),
			buildLedger(t, cancelled, step{to: order.Received}, step{to: order.Cancelled, at: time.Hour}),
		),
	)

	testCases := []struct {
		name    string
		orderID kernel.UUID
		current order.Status
		next    []order.Status
	}{
		{"diagnosing", inDiagnosis, order.Diagnosing,
			[]order.Status{order.AwaitingParts, order.AwaitingApproval, order.Repairing, order.Cancelled}},
		{"cancelled", cancelled, order.Cancelled, []order.Status{}},
		{"unseeded", unseeded, order.Unknown, []order.Status{order.Received}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := queries.NewGetNextStatusesQuery(tc.orderID)
			require.NoError(t, err)

			got, err := handler.Handle(t.Context(), query)

			require.NoError(t, err)
			assert.Equal(t, tc.current, got.Current)
			assert.Equal(t, tc.next, got.Next)
		})
	}
}

func TestValidateTransitionQueryHandler_Handle(t *testing.T) {
	handler := queries.NewValidateTransitionQueryHandler()

	testCases := []struct {
		name   string
		from   order.Status
		to     order.Status
		valid  bool
		reason string
	}{
		{"edge", order.Testing, order.ReadyForPickup, true, ""},
		{"seed", order.Unknown, order.Received, true, ""},
		{"missing edge", order.Received, order.Delivered, false, "invalid transition: RECEIVED -> DELIVERED"},
		{"no-op", order.Repairing, order.Repairing, false, "target status equals current status"},
		{"unknown target", order.Repairing, order.Status(50), false, "value is invalid"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query := queries.NewValidateTransitionQuery(tc.from, tc.to)

			first, err := handler.Handle(query)
			require.NoError(t, err)
			second, err := handler.Handle(query)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Equal(t, tc.valid, first.Valid)
			if tc.valid {
				assert.Empty(t, first.Reason)
			} else {
				assert.Contains(t, first.Reason, tc.reason)
			}
		})
	}

	t.Run("unconstructed query", func(t *testing.T) {
		_, err := handler.Handle(queries.ValidateTransitionQuery{})
		require.ErrorIs(t, err, queries.ErrValidateTransitionQueryIsNotConstructed)
	})
}
