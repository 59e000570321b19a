package history

import (
	"errors"
	"fmt"
	"time"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/errs"
)

var (
	// ErrStatusTransitionIsNotConstructed is returned when a StatusTransition
	// was not created through NewStatusTransition or RestoreStatusTransition.
	ErrStatusTransitionIsNotConstructed = errors.New(
		"StatusTransition must be created via NewStatusTransition or RestoreStatusTransition constructor")

	// ErrMalformedTransition marks a stored entry that breaks the ledger rules,
	// e.g. a self loop or an unknown target status.
	ErrMalformedTransition = errors.New("malformed status transition")
)

// StatusTransition is one immutable ledger entry: an order moved from one
// status to another at a point in time, on behalf of an actor.
//
// From is order.Unknown only for the first entry of an order, whose To is
// always order.Received.
//
// Example:
//
//	entry, err := history.NewStatusTransition(orderID, order.Diagnosing, order.Repairing,
//	    "Customer approved the estimate", actorID, now)
//	if err != nil {
//	    return err
//	}
//	if err = ledger.Append(ctx, entry); err != nil {
//	    return err
//	}
type StatusTransition struct {
	id         kernel.UUID
	orderID    kernel.UUID
	from       order.Status
	to         order.Status
	reason     string
	actorID    kernel.UUID
	occurredAt time.Time

	isConstructed bool
}

// NewStatusTransition creates a ledger entry with a fresh id. It checks the
// shape of the entry only; whether the edge exists is the status graph's
// call.
func NewStatusTransition(
	orderID kernel.UUID,
	from, to order.Status,
	reason string,
	actorID kernel.UUID,
	occurredAt time.Time,
) (*StatusTransition, error) {
	return RestoreStatusTransition(kernel.NewUUID(), orderID, from, to, reason, actorID, occurredAt)
}

// RestoreStatusTransition rebuilds an entry read from the ledger.
func RestoreStatusTransition(
	id kernel.UUID,
	orderID kernel.UUID,
	from, to order.Status,
	reason string,
	actorID kernel.UUID,
	occurredAt time.Time,
) (*StatusTransition, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		actorID.Validate(),
		validateStatuses(from, to),
		validateOccurredAt(occurredAt),
	); err != nil {
		return nil, err
	}

	return &StatusTransition{
		id:            id,
		orderID:       orderID,
		from:          from,
		to:            to,
		reason:        reason,
		actorID:       actorID,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

func validateStatuses(from, to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if from == order.Unknown {
		if to != order.Received {
			return errs.NewValueIsInvalidErrorWithCause("fromStatus",
				fmt.Errorf("%w: only %s may have no predecessor", ErrMalformedTransition, order.Received))
		}
		return nil
	}
	if err := from.Validate(); err != nil {
		return err
	}
	if from == to {
		return errs.NewValueIsInvalidErrorWithCause("toStatus",
			fmt.Errorf("%w: %s -> %s", ErrMalformedTransition, from, to))
	}
	return nil
}

func validateOccurredAt(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	return nil
}

// Validate ensures the entry was properly constructed.
func (t *StatusTransition) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrStatusTransitionIsNotConstructed
	}
	return nil
}

func (t *StatusTransition) ID() kernel.UUID {
	return t.id
}

func (t *StatusTransition) OrderID() kernel.UUID {
	return t.orderID
}

// From returns the previous status, or order.Unknown for the seeding entry.
func (t *StatusTransition) From() order.Status {
	return t.from
}

func (t *StatusTransition) To() order.Status {
	return t.to
}

func (t *StatusTransition) Reason() string {
	return t.reason
}

func (t *StatusTransition) ActorID() kernel.UUID {
	return t.actorID
}

func (t *StatusTransition) OccurredAt() time.Time {
	return t.occurredAt
}

// IsInitial reports whether this is the seeding entry of an order.
func (t *StatusTransition) IsInitial() bool {
	return t.from == order.Unknown
}
