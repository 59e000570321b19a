// Package postgres provides the GORM-based Unit of Work. One unit spans the
// order store and the history ledger, so a transition's ledger entry and the
// cached status commit or roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.HistoryLedger().Append(ctx, entry); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().UpdateStatus(ctx, id, version, next); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance holds at most one open transaction and must not be
// shared between goroutines.
package postgres

import (
	"context"

	"servicedesk/internal/adapters/out/postgres/historyrepo"
	"servicedesk/internal/adapters/out/postgres/orderrepo"
	"servicedesk/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances on one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh UnitOfWork with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork wraps one GORM transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB

	// finished is set once the last transaction committed or rolled back, so
	// a deferred Rollback after Commit does nothing.
	finished bool
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	uow.finished = false
	return nil
}

// Commit makes the changes of the open transaction permanent.
//
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.finished = true
	return err
}

// Rollback discards the open transaction. After Commit or a previous
// Rollback it returns nil; before any Begin it returns
// gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		if uow.finished {
			return nil
		}
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.finished = true
	return err
}

// OrderRepository returns the order store bound to the open transaction, or
// to the pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// HistoryLedger returns the ledger bound to the open transaction, or to the
// pool when none is open.
func (uow *GormUnitOfWork) HistoryLedger() ports.HistoryLedger {
	return historyrepo.NewGormHistoryLedger(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
