package ports

import (
	"context"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
)

// LedgerCursor is the keyset position of a range scan: the last
// (order id, occurred at) pair already returned.
type LedgerCursor struct {
	OrderID    kernel.UUID
	OccurredAt time.Time
}

// LedgerPage is one batch of a range scan. Malformed counts rows that could
// not be decoded into valid entries and were left out. Next is nil on the
// last page.
type LedgerPage struct {
	Entries   []*history.StatusTransition
	Malformed int
	Next      *LedgerCursor
}

// LatestPage is one batch of a LatestBefore scan. Malformed counts latest
// rows that could not be decoded; they still advance the cursor. Next is the
// last order id of the batch, nil on the last page.
type LatestPage struct {
	Entries   []*history.StatusTransition
	Malformed int
	Next      *kernel.UUID
}

// PurgeResult reports what a retention purge removed.
type PurgeResult struct {
	Orders  int
	Entries int
}

// HistoryLedger is the append-only store of status transitions. Entries are
// never updated; the only deletion is PurgeOlderThan, which drops whole
// order histories.
type HistoryLedger interface {
	// Append stores a new entry. An entry whose (order, occurred at) pair is
	// already taken fails with errs.ConcurrentModificationError.
	Append(ctx context.Context, entry *history.StatusTransition) error

	// ByOrder returns the order's entries sorted by OccurredAt ascending.
	ByOrder(ctx context.Context, orderID kernel.UUID) ([]*history.StatusTransition, error)

	// LastForOrder returns the latest entry, or errs.ObjectNotFoundError when
	// the order has no history yet.
	LastForOrder(ctx context.Context, orderID kernel.UUID) (*history.StatusTransition, error)

	// ByStatusInRange returns entries moving into status within the window,
	// sorted by OccurredAt.
	ByStatusInRange(ctx context.Context, status order.Status, window history.Window) ([]*history.StatusTransition, error)

	// ByActorInRange returns entries authored by actorID within the window,
	// sorted by OccurredAt.
	ByActorInRange(ctx context.Context, actorID kernel.UUID, window history.Window) ([]*history.StatusTransition, error)

	// InRange returns up to limit entries of the window that sort after the
	// cursor, ordered by (order id, occurred at). A nil cursor starts from
	// the beginning.
	InRange(ctx context.Context, window history.Window, after *LedgerCursor, limit int) (LedgerPage, error)

	// NextAfter returns, for each given order, its first entry strictly after
	// the instant. Orders without one are absent.
	NextAfter(ctx context.Context, orderIDs []kernel.UUID, after time.Time) (map[kernel.UUID]*history.StatusTransition, error)

	// LatestBefore returns up to limit latest entries of orders whose latest
	// entry is older than cutoff, ordered by order id and starting after
	// afterOrder.
	LatestBefore(ctx context.Context, cutoff time.Time, afterOrder *kernel.UUID, limit int) (LatestPage, error)

	// PurgeOlderThan deletes the full history of every order whose latest
	// entry is older than cutoff and moved it into a finished status. It
	// bumps the cached status version of every purged order, so a transition
	// racing the purge fails its compare-and-swap.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (PurgeResult, error)
}
