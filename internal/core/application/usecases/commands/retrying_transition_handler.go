package commands

import (
	"context"
	"errors"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultTransitionAttempts        = 3
	DefaultTransitionInitialInterval = 20 * time.Millisecond
)

// RetryingTransitionHandler re-runs a transition that lost an optimistic race.
//
// Only ConcurrentModificationError is retried, and only for commands without
// an expected status: a caller that pinned the current status asked to fail
// when the order moved. Every other error is returned at once.
type RetryingTransitionHandler struct {
	next            TransitionHandler
	attempts        uint64
	initialInterval time.Duration
}

// NewRetryingTransitionHandler wraps next. attempts counts the first try;
// values below 1 are treated as 1.
func NewRetryingTransitionHandler(next TransitionHandler, attempts int, initialInterval time.Duration) RetryingTransitionHandler {
	if attempts < 1 {
		attempts = 1
	}
	return RetryingTransitionHandler{
		next:            next,
		attempts:        uint64(attempts),
		initialInterval: initialInterval,
	}
}

func (h RetryingTransitionHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*history.StatusTransition, error) {
	if cmd.ExpectedStatus() != nil {
		return h.next.Handle(ctx, cmd)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.initialInterval
	policy.MaxElapsedTime = 0

	operation := func() (*history.StatusTransition, error) {
		entry, err := h.next.Handle(ctx, cmd)
		if err == nil {
			return entry, nil
		}
		if errors.Is(err, errs.ErrConcurrentModification) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	return backoff.RetryWithData(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, h.attempts-1), ctx))
}
