package services_test

import (
	"testing"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	window   history.Window
	stream   []*history.StatusTransition
	beyond   map[kernel.UUID]*history.StatusTransition
	operator kernel.UUID
}

// newAnalyticsFixture lays out four orders around a two-day window.
// AWAITING_PARTS is the slowest status among dwells that start in the window.
func newAnalyticsFixture(t *testing.T) analyticsFixture {
	t.Helper()

	window, err := history.NewWindow(t0, t0.Add(48*time.Hour))
	require.NoError(t, err)
	operator := kernel.NewUUID()

	a := ledgerFor(t, kernel.NewUUID(),
		step{to: order.Received, actor: operator},
		step{to: order.Diagnosing, at: time.Hour, actor: operator},
		step{to: order.AwaitingParts, at: 2 * time.Hour},
		step{to: order.Repairing, at: 12 * time.Hour},
		step{to: order.Testing, at: 13 * time.Hour},
	)
	b := ledgerFor(t, kernel.NewUUID(),
		step{to: order.Received},
		step{to: order.Diagnosing, at: 2 * time.Hour},
		step{to: order.AwaitingParts, at: 3 * time.Hour},
		step{to: order.Repairing, at: 9 * time.Hour},
	)
	// c entered AWAITING_PARTS before the window, so its 34h dwell is not attributed.
	c := ledgerFor(t, kernel.NewUUID(),
		step{to: order.Received, at: -10 * time.Hour},
		step{to: order.Diagnosing, at: -5 * time.Hour},
		step{to: order.AwaitingParts, at: -4 * time.Hour},
		step{to: order.Repairing, at: 30 * time.Hour},
		step{to: order.Testing, at: 31 * time.Hour},
	)
	// d leaves AWAITING_PARTS after the window closes.
	d := ledgerFor(t, kernel.NewUUID(),
		step{to: order.Received, at: 40 * time.Hour},
		step{to: order.Diagnosing, at: 46 * time.Hour},
		step{to: order.AwaitingParts, at: 47 * time.Hour},
		step{to: order.Repairing, at: 60 * time.Hour},
	)

	stream := make([]*history.StatusTransition, 0)
	stream = append(stream, a...)
	stream = append(stream, b...)
	stream = append(stream, c[3:]...)
	stream = append(stream, d[:3]...)

	return analyticsFixture{
		window:   window,
		stream:   stream,
		beyond:   map[kernel.UUID]*history.StatusTransition{d[3].OrderID(): d[3]},
		operator: operator,
	}
}

func (f analyticsFixture) run(filter services.StatsFilter) services.WorkflowStats {
	acc := services.NewWorkflowAccumulator(f.window, filter)
	for _, e := range f.stream {
		acc.Add(e)
	}
	acc.Flush()
	acc.Resolve(f.beyond)
	return acc.Result()
}

func dwellOf(stats services.WorkflowStats, s order.Status) services.StatusDwell {
	for _, d := range stats.DwellByStatus {
		if d.Status == s {
			return d
		}
	}
	return services.StatusDwell{}
}

func TestWorkflowAccumulator_Stats(t *testing.T) {
	f := newAnalyticsFixture(t)

	stats := f.run(services.StatsFilter{})

	t.Run("should count entries inside the window", func(t *testing.T) {
		assert.Equal(t, 3, stats.CountsByStatus[order.Received])
		assert.Equal(t, 3, stats.CountsByStatus[order.Diagnosing])
		assert.Equal(t, 3, stats.CountsByStatus[order.AwaitingParts])
		assert.Equal(t, 3, stats.CountsByStatus[order.Repairing])
		assert.Equal(t, 2, stats.CountsByStatus[order.Testing])
		assert.Equal(t, 0, stats.CountsByStatus[order.Cancelled])
		assert.Len(t, stats.CountsByStatus, len(order.AllStatuses()))
		assert.Equal(t, 2, stats.CountsByActor[f.operator])
	})

	t.Run("should attribute dwell by start and resolve successors past the window", func(t *testing.T) {
		parts := dwellOf(stats, order.AwaitingParts)
		assert.Equal(t, 3, parts.Count)
		assert.Equal(t, 29*time.Hour/3, parts.Average)

		received := dwellOf(stats, order.Received)
		assert.Equal(t, 3, received.Count)
		assert.Equal(t, 3*time.Hour, received.Average)

		repairing := dwellOf(stats, order.Repairing)
		assert.Equal(t, 2, repairing.Count)
		assert.Equal(t, time.Hour, repairing.Average)
	})

	t.Run("should report every status even without data", func(t *testing.T) {
		require.Len(t, stats.DwellByStatus, len(order.AllStatuses()))
		cancelled := dwellOf(stats, order.Cancelled)
		assert.Equal(t, order.Cancelled, cancelled.Status)
		assert.Zero(t, cancelled.Count)
		assert.Zero(t, cancelled.Average)
	})

	t.Run("should key transition dwell by the leaving edge", func(t *testing.T) {
		var found bool
		for _, d := range stats.DwellByTransition {
			if d.From == order.AwaitingParts && d.To == order.Repairing {
				found = true
				assert.Equal(t, 3, d.Count)
			}
		}
		assert.True(t, found)
	})

	t.Run("should not see malformed entries in a clean stream", func(t *testing.T) {
		assert.Zero(t, stats.MalformedEntries)
	})
}

func TestWorkflowStats_Bottlenecks(t *testing.T) {
	f := newAnalyticsFixture(t)
	stats := f.run(services.StatsFilter{})

	top := stats.Bottlenecks(1)

	require.Len(t, top.Statuses, 1)
	assert.Equal(t, order.AwaitingParts, top.Statuses[0].Status)
	assert.Equal(t, 29*time.Hour/3, top.Statuses[0].Average)
	require.Len(t, top.Transitions, 1)
	assert.Equal(t, services.TransitionKey{From: order.AwaitingParts, To: order.Repairing}, top.Transitions[0].TransitionKey)

	t.Run("should rank descending", func(t *testing.T) {
		all := stats.Bottlenecks(100)
		assert.Len(t, all.Statuses, len(order.AllStatuses()))
		for i := 1; i < len(all.Statuses); i++ {
			assert.GreaterOrEqual(t, all.Statuses[i-1].Average, all.Statuses[i].Average)
		}
	})

	t.Run("should not modify the stats", func(t *testing.T) {
		assert.Equal(t, order.Received, stats.DwellByStatus[0].Status)
	})
}

func TestWorkflowAccumulator_Filters(t *testing.T) {
	f := newAnalyticsFixture(t)

	t.Run("status filter", func(t *testing.T) {
		status := order.AwaitingParts
		stats := f.run(services.StatsFilter{Status: &status})

		assert.Equal(t, 3, stats.CountsByStatus[order.AwaitingParts])
		assert.Zero(t, stats.CountsByStatus[order.Received])
		assert.Equal(t, 3, dwellOf(stats, order.AwaitingParts).Count)
		assert.Zero(t, dwellOf(stats, order.Received).Count)
	})

	t.Run("actor filter", func(t *testing.T) {
		stats := f.run(services.StatsFilter{ActorID: &f.operator})

		assert.Equal(t, 1, stats.CountsByStatus[order.Received])
		assert.Equal(t, 1, stats.CountsByStatus[order.Diagnosing])
		assert.Equal(t, time.Hour, dwellOf(stats, order.Received).Average)
		assert.Equal(t, time.Hour, dwellOf(stats, order.Diagnosing).Average)
		assert.Len(t, stats.CountsByActor, 1)
	})
}

func TestWorkflowAccumulator_Malformed(t *testing.T) {
	window, err := history.NewWindow(t0, t0.Add(time.Hour*24))
	require.NoError(t, err)
	orderID := kernel.NewUUID()
	entries := ledgerFor(t, orderID,
		step{to: order.Received, at: 2 * time.Hour},
		step{to: order.Diagnosing, at: time.Hour},
		step{to: order.Repairing, at: 3 * time.Hour},
	)

	acc := services.NewWorkflowAccumulator(window, services.StatsFilter{})
	for _, e := range entries {
		acc.Add(e)
	}
	acc.Add(&history.StatusTransition{})
	acc.AddMalformed(2)
	acc.Flush()
	acc.Resolve(nil)
	stats := acc.Result()

	assert.Equal(t, 4, stats.MalformedEntries)
	assert.Equal(t, 1, stats.CountsByStatus[order.Received])
	assert.Zero(t, stats.CountsByStatus[order.Diagnosing])
	assert.Equal(t, time.Hour, dwellOf(stats, order.Received).Average)
}

func TestWorkflowAccumulator_Parked(t *testing.T) {
	f := newAnalyticsFixture(t)
	acc := services.NewWorkflowAccumulator(f.window, services.StatsFilter{})
	for _, e := range f.stream {
		acc.Add(e)
	}

	assert.Len(t, acc.Parked(), 3)
	acc.Flush()
	assert.Len(t, acc.Parked(), 4)
	acc.Resolve(f.beyond)
	assert.Empty(t, acc.Parked())
}
