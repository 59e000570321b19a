package services

import (
	"cmp"
	"slices"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
)

// StatsFilter narrows analytics to entries that moved an order into Status
// and/or were authored by ActorID. Nil fields match everything.
type StatsFilter struct {
	Status  *order.Status
	ActorID *kernel.UUID
}

// Matches reports whether e passes the filter.
func (f StatsFilter) Matches(e *history.StatusTransition) bool {
	if f.Status != nil && e.To() != *f.Status {
		return false
	}
	if f.ActorID != nil && !e.ActorID().IsEqual(*f.ActorID) {
		return false
	}
	return true
}

// StatusDwell is the average time orders spent in Status.
type StatusDwell struct {
	Status  order.Status
	Count   int
	Average time.Duration
}

// TransitionKey identifies an edge of the status graph.
type TransitionKey struct {
	From order.Status
	To   order.Status
}

// TransitionDwell is the average time spent in From before leaving it for To.
type TransitionDwell struct {
	TransitionKey
	Count   int
	Average time.Duration
}

// WorkflowStats is the result of one analytics pass over a window.
type WorkflowStats struct {
	Window            history.Window
	CountsByStatus    map[order.Status]int
	CountsByActor     map[kernel.UUID]int
	DwellByStatus     []StatusDwell
	DwellByTransition []TransitionDwell
	MalformedEntries  int
}

// Bottlenecks holds the slowest statuses and transitions of a window.
type Bottlenecks struct {
	Statuses    []StatusDwell
	Transitions []TransitionDwell
}

// Bottlenecks ranks the dwell averages descending and keeps the first topN
// of each list. Ties keep status declaration order.
func (s WorkflowStats) Bottlenecks(topN int) Bottlenecks {
	statuses := slices.Clone(s.DwellByStatus)
	slices.SortStableFunc(statuses, func(a, b StatusDwell) int {
		return cmp.Compare(b.Average, a.Average)
	})
	transitions := slices.Clone(s.DwellByTransition)
	slices.SortStableFunc(transitions, func(a, b TransitionDwell) int {
		return cmp.Compare(b.Average, a.Average)
	})

	return Bottlenecks{
		Statuses:    statuses[:min(topN, len(statuses))],
		Transitions: transitions[:min(topN, len(transitions))],
	}
}

type dwellSum struct {
	count int
	total time.Duration
}

func (d *dwellSum) add(v time.Duration) {
	d.count++
	d.total += v
}

func (d *dwellSum) average() time.Duration {
	if d == nil || d.count == 0 {
		return 0
	}
	return d.total / time.Duration(d.count)
}

// WorkflowAccumulator computes WorkflowStats in a single pass over ledger
// entries grouped by order and sorted by OccurredAt inside each group, the
// order HistoryLedger.Scan yields them in.
//
// A dwell pair is two consecutive entries of one order. It is attributed to
// the window when the first entry falls inside it, even if the second one
// does not. The last in-window entry of each order is therefore parked until
// its successor is supplied through Resolve.
//
// Example:
//
//	acc := services.NewWorkflowAccumulator(window, filter)
//	for page := range pages {
//	    for _, e := range page.Entries {
//	        acc.Add(e)
//	    }
//	    next, _ := ledger.NextAfter(ctx, acc.Parked(), window.To)
//	    acc.Resolve(next)
//	}
//	acc.Flush()
//	next, _ := ledger.NextAfter(ctx, acc.Parked(), window.To)
//	acc.Resolve(next)
//	stats := acc.Result()
type WorkflowAccumulator struct {
	window history.Window
	filter StatsFilter

	countsByStatus    map[order.Status]int
	countsByActor     map[kernel.UUID]int
	dwellByStatus     map[order.Status]*dwellSum
	dwellByTransition map[TransitionKey]*dwellSum
	malformed         int

	pending *history.StatusTransition
	parked  map[kernel.UUID]*history.StatusTransition
}

func NewWorkflowAccumulator(window history.Window, filter StatsFilter) *WorkflowAccumulator {
	return &WorkflowAccumulator{
		window:            window,
		filter:            filter,
		countsByStatus:    make(map[order.Status]int),
		countsByActor:     make(map[kernel.UUID]int),
		dwellByStatus:     make(map[order.Status]*dwellSum),
		dwellByTransition: make(map[TransitionKey]*dwellSum),
		parked:            make(map[kernel.UUID]*history.StatusTransition),
	}
}

// Add feeds the next entry of the stream. Entries that are unconstructed or
// not strictly after their predecessor are counted as malformed and skipped.
func (a *WorkflowAccumulator) Add(e *history.StatusTransition) {
	if e.Validate() != nil {
		a.malformed++
		return
	}

	if a.pending != nil && a.pending.OrderID().IsEqual(e.OrderID()) {
		if !e.OccurredAt().After(a.pending.OccurredAt()) {
			a.malformed++
			return
		}
		a.pair(a.pending, e)
	} else {
		a.park(a.pending)
	}
	a.pending = e

	if a.window.Contains(e.OccurredAt()) && a.filter.Matches(e) {
		a.countsByStatus[e.To()]++
		a.countsByActor[e.ActorID()]++
	}
}

// AddMalformed counts entries skipped before reaching the accumulator, such
// as undecodable rows or entries of orders the order store does not know.
func (a *WorkflowAccumulator) AddMalformed(n int) {
	a.malformed += n
}

// Parked returns the orders whose last seen entry still waits for a
// successor beyond the window.
func (a *WorkflowAccumulator) Parked() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(a.parked))
	for id := range a.parked {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, kernel.UUID.Compare)
	return ids
}

// Resolve closes parked pairs with their successors, keyed by order id.
// Parked entries without a successor are dwells still in progress and are
// dropped.
func (a *WorkflowAccumulator) Resolve(successors map[kernel.UUID]*history.StatusTransition) {
	for id, prev := range a.parked {
		if next, ok := successors[id]; ok && next.Validate() == nil && next.OccurredAt().After(prev.OccurredAt()) {
			a.pair(prev, next)
		}
	}
	clear(a.parked)
}

// Flush parks the entry of the last order in the stream.
func (a *WorkflowAccumulator) Flush() {
	a.park(a.pending)
	a.pending = nil
}

// Result returns the statistics gathered so far. Every status is present in
// CountsByStatus and DwellByStatus, with zero values when unseen.
func (a *WorkflowAccumulator) Result() WorkflowStats {
	stats := WorkflowStats{
		Window:            a.window,
		CountsByStatus:    make(map[order.Status]int, len(order.AllStatuses())),
		CountsByActor:     make(map[kernel.UUID]int, len(a.countsByActor)),
		DwellByStatus:     make([]StatusDwell, 0, len(order.AllStatuses())),
		DwellByTransition: make([]TransitionDwell, 0, len(a.dwellByTransition)),
		MalformedEntries:  a.malformed,
	}

	for _, s := range order.AllStatuses() {
		stats.CountsByStatus[s] = a.countsByStatus[s]

		d := a.dwellByStatus[s]
		dwell := StatusDwell{Status: s, Average: d.average()}
		if d != nil {
			dwell.Count = d.count
		}
		stats.DwellByStatus = append(stats.DwellByStatus, dwell)
	}
	for actor, n := range a.countsByActor {
		stats.CountsByActor[actor] = n
	}
	for key, d := range a.dwellByTransition {
		stats.DwellByTransition = append(stats.DwellByTransition, TransitionDwell{
			TransitionKey: key,
			Count:         d.count,
			Average:       d.average(),
		})
	}
	slices.SortFunc(stats.DwellByTransition, func(x, y TransitionDwell) int {
		return cmp.Or(cmp.Compare(x.From, y.From), cmp.Compare(x.To, y.To))
	})

	return stats
}

func (a *WorkflowAccumulator) pair(prev, next *history.StatusTransition) {
	if !a.window.Contains(prev.OccurredAt()) || !a.filter.Matches(prev) {
		return
	}
	dwell := next.OccurredAt().Sub(prev.OccurredAt())

	if a.dwellByStatus[prev.To()] == nil {
		a.dwellByStatus[prev.To()] = &dwellSum{}
	}
	a.dwellByStatus[prev.To()].add(dwell)

	key := TransitionKey{From: prev.To(), To: next.To()}
	if a.dwellByTransition[key] == nil {
		a.dwellByTransition[key] = &dwellSum{}
	}
	a.dwellByTransition[key].add(dwell)
}

func (a *WorkflowAccumulator) park(e *history.StatusTransition) {
	if e == nil || !a.window.Contains(e.OccurredAt()) || !a.filter.Matches(e) {
		return
	}
	a.parked[e.OrderID()] = e
}
