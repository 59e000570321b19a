package queries_test

import (
	"cmp"
	"context"
	"slices"
	"testing"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

type step struct {
	to    order.Status
	at    time.Duration
	actor kernel.UUID
}

func buildLedger(t *testing.T, orderID kernel.UUID, steps ...step) []*history.StatusTransition {
	t.Helper()

	entries := make([]*history.StatusTransition, 0, len(steps))
	from := order.Unknown
	for _, s := range steps {
		actor := s.actor
		if actor.Validate() != nil {
			actor = kernel.NewUUID()
		}
		e, err := history.NewStatusTransition(orderID, from, s.to, order.DefaultReason(s.to), actor, t0.Add(s.at))
		require.NoError(t, err)
		entries = append(entries, e)
		from = s.to
	}
	return entries
}

// fakeLedger serves the read side of ports.HistoryLedger from memory with
// the same ordering and paging contracts as the database adapter.
type fakeLedger struct {
	ports.HistoryLedger

	entries          []*history.StatusTransition
	malformedPerPage int
	// undecodable orders have their latest row reported as malformed
	undecodable      map[kernel.UUID]struct{}
	inRangeCalls     int
	onPage           func()
}

func newFakeLedger(ledgers ...[]*history.StatusTransition) *fakeLedger {
	l := &fakeLedger{}
	for _, entries := range ledgers {
		l.entries = append(l.entries, entries...)
	}
	return l
}

func compareKey(a, b *history.StatusTransition) int {
	return cmp.Or(a.OrderID().Compare(b.OrderID()), a.OccurredAt().Compare(b.OccurredAt()))
}

func (l *fakeLedger) sorted(keep func(*history.StatusTransition) bool, byTime bool) []*history.StatusTransition {
	out := make([]*history.StatusTransition, 0)
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	if byTime {
		slices.SortFunc(out, func(a, b *history.StatusTransition) int { return a.OccurredAt().Compare(b.OccurredAt()) })
	} else {
		slices.SortFunc(out, compareKey)
	}
	return out
}

func (l *fakeLedger) ByOrder(_ context.Context, orderID kernel.UUID) ([]*history.StatusTransition, error) {
	return l.sorted(func(e *history.StatusTransition) bool { return e.OrderID().IsEqual(orderID) }, true), nil
}

func (l *fakeLedger) LastForOrder(ctx context.Context, orderID kernel.UUID) (*history.StatusTransition, error) {
	entries, _ := l.ByOrder(ctx, orderID)
	if len(entries) == 0 {
		return nil, errs.NewObjectNotFoundError("orderID", orderID)
	}
	return entries[len(entries)-1], nil
}

func (l *fakeLedger) ByStatusInRange(_ context.Context, status order.Status, w history.Window) ([]*history.StatusTransition, error) {
	return l.sorted(func(e *history.StatusTransition) bool {
		return e.To() == status && w.Contains(e.OccurredAt())
	}, true), nil
}

func (l *fakeLedger) ByActorInRange(_ context.Context, actorID kernel.UUID, w history.Window) ([]*history.StatusTransition, error) {
	return l.sorted(func(e *history.StatusTransition) bool {
		return e.ActorID().IsEqual(actorID) && w.Contains(e.OccurredAt())
	}, true), nil
}

func (l *fakeLedger) InRange(_ context.Context, w history.Window, after *ports.LedgerCursor, limit int) (ports.LedgerPage, error) {
	l.inRangeCalls++
	if l.onPage != nil {
		l.onPage()
	}

	all := l.sorted(func(e *history.StatusTransition) bool { return w.Contains(e.OccurredAt()) }, false)
	start := 0
	if after != nil {
		start = len(all)
		for i, e := range all {
			c := cmp.Or(e.OrderID().Compare(after.OrderID), e.OccurredAt().Compare(after.OccurredAt))
			if c > 0 {
				start = i
				break
			}
		}
	}
	end := min(start+limit, len(all))
	page := ports.LedgerPage{Entries: all[start:end], Malformed: l.malformedPerPage}
	if end < len(all) {
		last := all[end-1]
		page.Next = &ports.LedgerCursor{OrderID: last.OrderID(), OccurredAt: last.OccurredAt()}
	}
	return page, nil
}

func (l *fakeLedger) NextAfter(
	ctx context.Context, orderIDs []kernel.UUID, after time.Time,
) (map[kernel.UUID]*history.StatusTransition, error) {
	out := make(map[kernel.UUID]*history.StatusTransition)
	for _, id := range orderIDs {
		entries, _ := l.ByOrder(ctx, id)
		for _, e := range entries {
			if e.OccurredAt().After(after) {
				out[id] = e
				break
			}
		}
	}
	return out, nil
}

func (l *fakeLedger) LatestBefore(
	_ context.Context, cutoff time.Time, afterOrder *kernel.UUID, limit int,
) (ports.LatestPage, error) {
	latest := make(map[kernel.UUID]*history.StatusTransition)
	for _, e := range l.entries {
		if cur, ok := latest[e.OrderID()]; !ok || e.OccurredAt().After(cur.OccurredAt()) {
			latest[e.OrderID()] = e
		}
	}
	rows := make([]*history.StatusTransition, 0)
	for id, e := range latest {
		if !e.OccurredAt().Before(cutoff) {
			continue
		}
		if afterOrder != nil && id.Compare(*afterOrder) <= 0 {
			continue
		}
		rows = append(rows, e)
	}
	slices.SortFunc(rows, compareKey)
	rows = rows[:min(limit, len(rows))]

	page := ports.LatestPage{Entries: make([]*history.StatusTransition, 0, len(rows))}
	for _, e := range rows {
		if _, bad := l.undecodable[e.OrderID()]; bad {
			page.Malformed++
			continue
		}
		page.Entries = append(page.Entries, e)
	}
	if len(rows) == limit && limit > 0 {
		next := rows[len(rows)-1].OrderID()
		page.Next = &next
	}
	return page, nil
}

// fakeOrders knows a fixed set of order ids.
type fakeOrders struct {
	known map[kernel.UUID]*order.Order
}

func newFakeOrders(t *testing.T, ids ...kernel.UUID) *fakeOrders {
	t.Helper()
	f := &fakeOrders{known: make(map[kernel.UUID]*order.Order)}
	for _, id := range ids {
		o, err := order.NewOrder(id, order.TypeRepair, order.PriorityNormal, nil, t0)
		require.NoError(t, err)
		f.known[id] = o
	}
	return f
}

func (f *fakeOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := f.known[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return o, nil
}

func (f *fakeOrders) GetMany(_ context.Context, ids []kernel.UUID) (map[kernel.UUID]*order.Order, error) {
	out := make(map[kernel.UUID]*order.Order)
	for _, id := range ids {
		if o, ok := f.known[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(context.Context, kernel.UUID, int, order.Status) error {
	panic("queries never write")
}

type MockActorDirectory struct{ mock.Mock }

func (m *MockActorDirectory) DisplayName(ctx context.Context, actorID kernel.UUID) (string, error) {
	args := m.Called(ctx, actorID)
	return args.String(0), args.Error(1)
}
