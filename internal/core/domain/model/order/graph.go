package order

import (
	"errors"
	"fmt"

	"servicedesk/internal/pkg/errs"
)

// ErrNoOpTransition is the cause attached when a transition targets the
// order's current status.
var ErrNoOpTransition = errors.New("target status equals current status")

// transitions is the complete edge set of the lifecycle. Statuses absent from
// the map, and Cancelled, have no outgoing edges.
var transitions = map[Status][]Status{
	Received:         {Diagnosing, Cancelled},
	Diagnosing:       {AwaitingParts, AwaitingApproval, Repairing, Cancelled},
	AwaitingParts:    {Repairing, Cancelled},
	AwaitingApproval: {Repairing, Cancelled, Diagnosing},
	Repairing:        {Testing, AwaitingParts, Cancelled},
	Testing:          {ReadyForPickup, Repairing},
	ReadyForPickup:   {Delivered},
	Delivered:        {Warranty},
	Cancelled:        {},
	Warranty:         {Diagnosing, Repairing},
}

// StatusGraph answers questions about the fixed lifecycle transition table.
// It holds no state; the zero value is ready to use.
//
// Example:
//
//	graph := order.NewStatusGraph()
//	if !graph.IsValidTransition(order.Diagnosing, order.Repairing) {
//	    return errs.NewInvalidTransitionError("DIAGNOSING", "REPAIRING")
//	}
type StatusGraph struct{}

// NewStatusGraph returns the lifecycle graph.
func NewStatusGraph() StatusGraph {
	return StatusGraph{}
}

// IsValidTransition reports whether from -> to is an edge. from == Unknown
// means "no predecessor" and only admits Received.
func (StatusGraph) IsValidTransition(from, to Status) bool {
	if from == Unknown {
		return to == Received
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextPossibleStatuses returns the targets reachable in one step. The result
// is a fresh slice the caller may modify; it is empty for Cancelled and for
// invalid statuses.
func (StatusGraph) NextPossibleStatuses(from Status) []Status {
	if from == Unknown {
		return []Status{Received}
	}
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// ValidateTransition classifies a proposed change:
//   - ValueIsInvalidError when to is not a status, or from == to
//   - InvalidTransitionError when the pair is not an edge
//   - nil otherwise
func (g StatusGraph) ValidateTransition(from, to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if from != Unknown {
		if err := from.Validate(); err != nil {
			return err
		}
	}
	if from == to {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%w: %s", ErrNoOpTransition, to))
	}
	if !g.IsValidTransition(from, to) {
		if from.IsTerminal() {
			return errs.NewInvalidTransitionErrorWithCause(from.predecessorName(), to.String(),
				fmt.Errorf("%s is terminal", from))
		}
		return errs.NewInvalidTransitionError(from.predecessorName(), to.String())
	}
	return nil
}

// CanTransitionTo is shorthand for NewStatusGraph().IsValidTransition(s, to).
func (s Status) CanTransitionTo(to Status) bool {
	return StatusGraph{}.IsValidTransition(s, to)
}

func (s Status) predecessorName() string {
	if s == Unknown {
		return "NONE"
	}
	return s.String()
}
