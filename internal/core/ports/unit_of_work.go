package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction spanning the order store and the
// history ledger. The cached order status and the ledger only ever change
// together inside one of these.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. It is a no-op after
	// Commit, so handlers can always defer it.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository

	// HistoryLedger returns a ledger bound to the current transaction.
	HistoryLedger() HistoryLedger
}
