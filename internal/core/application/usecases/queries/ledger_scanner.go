package queries

import (
	"context"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
)

// DefaultBatchSize is the page size of ledger scans when none is configured.
const DefaultBatchSize = 500

// ledgerScanner walks a window of the ledger page by page and feeds a
// WorkflowAccumulator. Entries of orders the order store cannot resolve are
// counted as malformed.
type ledgerScanner struct {
	orders    ports.OrderRepository
	ledger    ports.HistoryLedger
	batchSize int
}

func newLedgerScanner(orders ports.OrderRepository, ledger ports.HistoryLedger, batchSize int) ledgerScanner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return ledgerScanner{orders: orders, ledger: ledger, batchSize: batchSize}
}

func (s ledgerScanner) stats(ctx context.Context, window history.Window, filter services.StatsFilter) (services.WorkflowStats, error) {
	acc := services.NewWorkflowAccumulator(window, filter)

	var cursor *ports.LedgerCursor
	for {
		if err := ctx.Err(); err != nil {
			return services.WorkflowStats{}, err
		}

		page, err := s.ledger.InRange(ctx, window, cursor, s.batchSize)
		if err != nil {
			return services.WorkflowStats{}, err
		}
		acc.AddMalformed(page.Malformed)

		known, err := s.knownOrders(ctx, page.Entries)
		if err != nil {
			return services.WorkflowStats{}, err
		}
		for _, e := range page.Entries {
			if !known[e.OrderID()] {
				acc.AddMalformed(1)
				continue
			}
			acc.Add(e)
		}

		if err = s.resolveParked(ctx, acc, window); err != nil {
			return services.WorkflowStats{}, err
		}

		if page.Next == nil {
			break
		}
		cursor = page.Next
	}

	acc.Flush()
	if err := s.resolveParked(ctx, acc, window); err != nil {
		return services.WorkflowStats{}, err
	}

	return acc.Result(), nil
}

func (s ledgerScanner) knownOrders(ctx context.Context, entries []*history.StatusTransition) (map[kernel.UUID]bool, error) {
	ids := distinctOrderIDs(entries)
	known := make(map[kernel.UUID]bool, len(ids))
	if len(ids) == 0 {
		return known, nil
	}

	found, err := s.orders.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id := range found {
		known[id] = true
	}
	return known, nil
}

func (s ledgerScanner) resolveParked(ctx context.Context, acc *services.WorkflowAccumulator, window history.Window) error {
	parked := acc.Parked()
	if len(parked) == 0 {
		return nil
	}
	next, err := s.ledger.NextAfter(ctx, parked, window.To)
	if err != nil {
		return err
	}
	acc.Resolve(next)
	return nil
}

func distinctOrderIDs(entries []*history.StatusTransition) []kernel.UUID {
	seen := make(map[kernel.UUID]bool)
	ids := make([]kernel.UUID, 0)
	for _, e := range entries {
		if seen[e.OrderID()] {
			continue
		}
		seen[e.OrderID()] = true
		ids = append(ids, e.OrderID())
	}
	return ids
}
