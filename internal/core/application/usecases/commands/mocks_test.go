package commands_test

import (
	"context"
	"time"

	"servicedesk/internal/core/application/usecases/commands"
	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, expectedVersion int, next order.Status) error {
	args := m.Called(ctx, id, expectedVersion, next)
	return args.Error(0)
}

type MockHistoryLedger struct{ mock.Mock }

func (m *MockHistoryLedger) Append(ctx context.Context, entry *history.StatusTransition) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryLedger) ByOrder(ctx context.Context, orderID kernel.UUID) ([]*history.StatusTransition, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.StatusTransition), args.Error(1)
}

func (m *MockHistoryLedger) LastForOrder(ctx context.Context, orderID kernel.UUID) (*history.StatusTransition, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.StatusTransition), args.Error(1)
}

func (m *MockHistoryLedger) ByStatusInRange(
	ctx context.Context, status order.Status, window history.Window,
) ([]*history.StatusTransition, error) {
	args := m.Called(ctx, status, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.StatusTransition), args.Error(1)
}

func (m *MockHistoryLedger) ByActorInRange(
	ctx context.Context, actorID kernel.UUID, window history.Window,
) ([]*history.StatusTransition, error) {
	args := m.Called(ctx, actorID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.StatusTransition), args.Error(1)
}

func (m *MockHistoryLedger) InRange(
	ctx context.Context, window history.Window, after *ports.LedgerCursor, limit int,
) (ports.LedgerPage, error) {
	args := m.Called(ctx, window, after, limit)
	return args.Get(0).(ports.LedgerPage), args.Error(1)
}

func (m *MockHistoryLedger) NextAfter(
	ctx context.Context, orderIDs []kernel.UUID, after time.Time,
) (map[kernel.UUID]*history.StatusTransition, error) {
	args := m.Called(ctx, orderIDs, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]*history.StatusTransition), args.Error(1)
}

func (m *MockHistoryLedger) LatestBefore(
	ctx context.Context, cutoff time.Time, afterOrder *kernel.UUID, limit int,
) (ports.LatestPage, error) {
	args := m.Called(ctx, cutoff, afterOrder, limit)
	return args.Get(0).(ports.LatestPage), args.Error(1)
}

func (m *MockHistoryLedger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (ports.PurgeResult, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(ports.PurgeResult), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) HistoryLedger() ports.HistoryLedger {
	args := m.Called()
	return args.Get(0).(ports.HistoryLedger)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockLedgerUoWFactory struct{ mock.Mock }

func (m *MockLedgerUoWFactory) Create() commands.LedgerUoW {
	args := m.Called()
	return args.Get(0).(commands.LedgerUoW)
}

type MockOrderLocker struct{ mock.Mock }

func (m *MockOrderLocker) TryLock(ctx context.Context, orderID kernel.UUID) (ports.ReleaseFunc, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.ReleaseFunc), args.Error(1)
}

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*history.StatusTransition, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.StatusTransition), args.Error(1)
}
