package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"
)

// TransitionHandler is implemented by TransitionOrderCommandHandler and the
// retrying wrapper around it.
type TransitionHandler interface {
	Handle(ctx context.Context, cmd TransitionOrderCommand) (*history.StatusTransition, error)
}

// TransitionOrderCommandHandler is the only writer of the history ledger.
//
// Business rules:
//   - the ledger, not the cached status, decides the current status
//   - an empty ledger accepts only NONE -> RECEIVED, and only while the
//     cached status is still RECEIVED or unset
//   - a pinned expected status that no longer matches fails with
//     ConcurrentModificationError before anything else is checked
//   - a no-op fails with ValueIsInvalidError, a missing edge with
//     InvalidTransitionError
//   - the ledger append and the cached-status swap commit together or not at all
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, locker, time.Now)
//	entry, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // the graph has no such edge
//	case errors.Is(err, errs.ErrConcurrentModification):
//	    // somebody else moved the order first
//	}
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	locker     ports.OrderLocker
	graph      order.StatusGraph
	clock      func() time.Time
}

// NewTransitionOrderCommandHandler creates the handler. locker may be nil when
// the database compare-and-swap alone is enough.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	locker ports.OrderLocker,
	clock func() time.Time,
) TransitionOrderCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		graph:      order.NewStatusGraph(),
		clock:      clock,
	}
}

// Handle validates and records the transition and returns the committed
// ledger entry.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*history.StatusTransition, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if h.locker != nil {
		release, err := h.locker.TryLock(ctx, cmd.OrderID())
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = release(context.WithoutCancel(ctx))
		}()
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ledger := uow.HistoryLedger()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	current := order.Unknown
	last, err := ledger.LastForOrder(ctx, cmd.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		last = nil
	case err != nil:
		return nil, err
	default:
		current = last.To()
	}

	if expected := cmd.ExpectedStatus(); expected != nil && *expected != current {
		return nil, errs.NewConcurrentModificationError("order", cmd.OrderID(), expected.String(), statusName(current))
	}

	// An empty ledger only seeds orders that never left RECEIVED.
	if last == nil && o.Status() != order.Unknown && o.Status() != order.Received {
		return nil, errs.NewInvalidTransitionErrorWithCause(statusName(current), cmd.ToStatus().String(),
			fmt.Errorf("order is cached as %s but has no history", o.Status()))
	}

	if err = h.graph.ValidateTransition(current, cmd.ToStatus()); err != nil {
		return nil, err
	}

	reason := cmd.Reason()
	if reason == "" {
		reason = order.DefaultReason(cmd.ToStatus())
	}

	entry, err := history.NewStatusTransition(cmd.OrderID(), current, cmd.ToStatus(), reason, cmd.ActorID(), h.occurredAt(last))
	if err != nil {
		return nil, err
	}

	if err = ledger.Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, o.ID(), o.Version(), cmd.ToStatus()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// occurredAt stamps the entry at microsecond precision, the resolution the
// ledger stores, and keeps it strictly after the previous entry.
func (h TransitionOrderCommandHandler) occurredAt(last *history.StatusTransition) time.Time {
	at := h.clock().UTC().Truncate(time.Microsecond)
	if last != nil && !at.After(last.OccurredAt()) {
		at = last.OccurredAt().Add(time.Microsecond)
	}
	return at
}

func statusName(s order.Status) string {
	if s == order.Unknown {
		return "NONE"
	}
	return s.String()
}
