// Package commands contains the write operations of the service desk.
// Every command is built through a constructor that validates its input, and
// every handler runs its work inside one unit of work.
package commands

import (
	"context"

	"servicedesk/internal/core/ports"
)

// Unit of Work interfaces scoped to what the handlers of this package need.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order store within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// LedgerFactory provides access to the history ledger within a transaction.
	LedgerFactory interface {
		HistoryLedger() ports.HistoryLedger
	}

	// UoW spans the order store and the ledger. Transitions need both so the
	// cached status and the ledger move together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   if err = uow.HistoryLedger().Append(ctx, entry); err != nil {
	//       return err
	//   }
	//   if err = uow.OrderRepository().UpdateStatus(ctx, id, version, next); err != nil {
	//       return err
	//   }
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		LedgerFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}

	// LedgerUoW manages transactions touching the ledger only.
	LedgerUoW interface {
		TxManager
		LedgerFactory
	}

	// LedgerUoWFactory creates new ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}
)
