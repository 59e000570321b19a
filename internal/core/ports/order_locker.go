package ports

import (
	"context"

	"servicedesk/internal/core/domain/model/kernel"
)

// ReleaseFunc gives a lock back. Releasing a lock that already expired is not
// an error.
type ReleaseFunc func(ctx context.Context) error

// OrderLocker provides cross-process mutual exclusion per order. TryLock
// never waits: a lock held by someone else fails with
// errs.ConcurrentModificationError.
type OrderLocker interface {
	TryLock(ctx context.Context, orderID kernel.UUID) (ReleaseFunc, error)
}
