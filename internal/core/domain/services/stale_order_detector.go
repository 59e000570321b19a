package services

import (
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
)

// StalePriority ranks how overdue a stale order is.
type StalePriority string

const (
	StalePriorityMedium StalePriority = "medium"
	StalePriorityHigh   StalePriority = "high"
)

// StaleOrder is an active order that has not moved for longer than the
// threshold.
type StaleOrder struct {
	OrderID          kernel.UUID
	Status           order.Status
	LastTransitionAt time.Time
	Staleness        time.Duration
	Priority         StalePriority
}

// StaleOrderDetector decides staleness from an order's latest ledger entry.
//
// Business rules:
//   - only active statuses can be stale; Delivered and Cancelled never are
//   - staleness strictly greater than the threshold makes an order stale
//   - staleness strictly greater than twice the threshold makes it high priority
type StaleOrderDetector struct{}

func NewStaleOrderDetector() StaleOrderDetector {
	return StaleOrderDetector{}
}

// Evaluate returns the stale-order record and true when last marks a stale
// order at now.
func (StaleOrderDetector) Evaluate(last *history.StatusTransition, threshold time.Duration, now time.Time) (StaleOrder, bool) {
	if last.Validate() != nil || !last.To().IsActive() {
		return StaleOrder{}, false
	}

	staleness := now.Sub(last.OccurredAt())
	if staleness <= threshold {
		return StaleOrder{}, false
	}

	priority := StalePriorityMedium
	if staleness > 2*threshold {
		priority = StalePriorityHigh
	}

	return StaleOrder{
		OrderID:          last.OrderID(),
		Status:           last.To(),
		LastTransitionAt: last.OccurredAt(),
		Staleness:        staleness,
		Priority:         priority,
	}, true
}
