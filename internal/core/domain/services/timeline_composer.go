package services

import (
	"fmt"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/errs"
)

// TimelineEntry is one stay of an order in a status. LeftAt is nil for the
// status the order is currently in.
type TimelineEntry struct {
	Status    order.Status
	EnteredAt time.Time
	LeftAt    *time.Time
	Dwell     time.Duration
}

// DwellSeconds returns Dwell in seconds.
func (e TimelineEntry) DwellSeconds() float64 {
	return e.Dwell.Seconds()
}

// IsOpen reports whether the order is still in this status.
func (e TimelineEntry) IsOpen() bool {
	return e.LeftAt == nil
}

// Timeline is the per-status view of an order's ledger.
type Timeline struct {
	OrderID             kernel.UUID
	Entries             []TimelineEntry
	TotalProcessingTime time.Duration
	Active              bool
}

// TimelineComposer turns an ordered ledger slice into a Timeline.
//
// Business rules:
//   - consecutive entries form closed rows; the last entry is an open row
//     whose dwell runs until now
//   - total processing time ends at the last entry once the order has left
//     the active statuses, otherwise it runs until now
//
// Example:
//
//	entries, err := ledger.ByOrder(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	tl, err := services.NewTimelineComposer().Compose(orderID, entries, time.Now())
type TimelineComposer struct{}

func NewTimelineComposer() TimelineComposer {
	return TimelineComposer{}
}

// Compose builds the timeline. entries must belong to orderID and be sorted by
// OccurredAt ascending, as HistoryLedger.ByOrder returns them. An empty slice
// yields an empty, inactive timeline.
func (c TimelineComposer) Compose(orderID kernel.UUID, entries []*history.StatusTransition, now time.Time) (Timeline, error) {
	tl := Timeline{OrderID: orderID}
	if len(entries) == 0 {
		tl.Entries = []TimelineEntry{}
		return tl, nil
	}

	if err := c.checkOrdered(orderID, entries); err != nil {
		return Timeline{}, err
	}

	tl.Entries = make([]TimelineEntry, 0, len(entries))
	for i, e := range entries {
		row := TimelineEntry{
			Status:    e.To(),
			EnteredAt: e.OccurredAt(),
		}
		if i+1 < len(entries) {
			left := entries[i+1].OccurredAt()
			row.LeftAt = &left
			row.Dwell = left.Sub(row.EnteredAt)
		} else {
			row.Dwell = nonNegative(now.Sub(row.EnteredAt))
		}
		tl.Entries = append(tl.Entries, row)
	}

	first, last := entries[0], entries[len(entries)-1]
	tl.Active = last.To().IsActive()
	if tl.Active {
		tl.TotalProcessingTime = nonNegative(now.Sub(first.OccurredAt()))
	} else {
		tl.TotalProcessingTime = last.OccurredAt().Sub(first.OccurredAt())
	}

	return tl, nil
}

// ProcessingTimeUntil returns the span from the order's first entry up to and
// including the entry at until. ok is false when no entry sits at until.
func (c TimelineComposer) ProcessingTimeUntil(entries []*history.StatusTransition, until time.Time) (time.Duration, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	for _, e := range entries {
		if e.OccurredAt().Equal(until) {
			return until.Sub(entries[0].OccurredAt()), true
		}
	}
	return 0, false
}

func (c TimelineComposer) checkOrdered(orderID kernel.UUID, entries []*history.StatusTransition) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if !e.OrderID().IsEqual(orderID) {
			return errs.NewValueIsInvalidErrorWithCause("entries",
				fmt.Errorf("entry %s belongs to order %s", e.ID(), e.OrderID()))
		}
		if i > 0 && !e.OccurredAt().After(entries[i-1].OccurredAt()) {
			return errs.NewValueIsInvalidErrorWithCause("entries",
				fmt.Errorf("%w: entry %s is not after its predecessor", history.ErrMalformedTransition, e.ID()))
		}
	}
	return nil
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
