package services

import (
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
)

// OperatorProductivity summarizes what one actor did inside a window.
type OperatorProductivity struct {
	ActorID             kernel.UUID
	DisplayName         string
	Window              history.Window
	TransitionsAuthored int
	Completions         int
	Cancellations       int

	// CompletedOrders is the number of orders AverageProcessingTime was
	// computed over.
	CompletedOrders       int
	AverageProcessingTime time.Duration
}

// ProductivityCalculator derives OperatorProductivity from the actor's
// entries and the full ledger of the orders they delivered.
type ProductivityCalculator struct {
	timeline TimelineComposer
}

func NewProductivityCalculator() ProductivityCalculator {
	return ProductivityCalculator{timeline: NewTimelineComposer()}
}

// DeliveredOrders returns the orders the actor moved to Delivered within the
// window. These are the orders whose full history Calculate needs.
func (p ProductivityCalculator) DeliveredOrders(actorID kernel.UUID, window history.Window, authored []*history.StatusTransition) []kernel.UUID {
	seen := make(map[kernel.UUID]bool)
	ids := make([]kernel.UUID, 0)
	for _, e := range authored {
		if !p.authoredInWindow(e, actorID, window) || e.To() != order.Delivered || seen[e.OrderID()] {
			continue
		}
		seen[e.OrderID()] = true
		ids = append(ids, e.OrderID())
	}
	return ids
}

// Calculate counts the authored entries and averages processing time over
// orders whose last finishing transition inside the window (Delivered or
// Cancelled) was a delivery by the actor. Processing time runs from the
// order's first entry to that delivery.
func (p ProductivityCalculator) Calculate(
	actorID kernel.UUID,
	displayName string,
	window history.Window,
	authored []*history.StatusTransition,
	histories map[kernel.UUID][]*history.StatusTransition,
) OperatorProductivity {
	result := OperatorProductivity{
		ActorID:     actorID,
		DisplayName: displayName,
		Window:      window,
	}

	for _, e := range authored {
		if !p.authoredInWindow(e, actorID, window) {
			continue
		}
		result.TransitionsAuthored++
		switch e.To() {
		case order.Delivered:
			result.Completions++
		case order.Cancelled:
			result.Cancellations++
		}
	}

	var total time.Duration
	for _, orderID := range p.DeliveredOrders(actorID, window, authored) {
		entries := histories[orderID]
		finish := lastFinish(entries, window)
		if finish == nil || finish.To() != order.Delivered || !finish.ActorID().IsEqual(actorID) {
			continue
		}
		d, ok := p.timeline.ProcessingTimeUntil(entries, finish.OccurredAt())
		if !ok {
			continue
		}
		total += d
		result.CompletedOrders++
	}
	if result.CompletedOrders > 0 {
		result.AverageProcessingTime = total / time.Duration(result.CompletedOrders)
	}

	return result
}

func (p ProductivityCalculator) authoredInWindow(e *history.StatusTransition, actorID kernel.UUID, window history.Window) bool {
	return e.Validate() == nil && e.ActorID().IsEqual(actorID) && window.Contains(e.OccurredAt())
}

func lastFinish(entries []*history.StatusTransition, window history.Window) *history.StatusTransition {
	var last *history.StatusTransition
	for _, e := range entries {
		if !window.Contains(e.OccurredAt()) {
			continue
		}
		if e.To() == order.Delivered || e.To() == order.Cancelled {
			last = e
		}
	}
	return last
}
