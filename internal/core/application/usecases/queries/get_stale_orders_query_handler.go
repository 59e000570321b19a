package queries

import (
	"cmp"
	"context"
	"slices"
	"time"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
)

// StaleOrdersReport is the result of a stale-order scan. Malformed counts the
// latest entries that were skipped: undecodable rows and entries of orders
// the order store no longer knows.
type StaleOrdersReport struct {
	Orders    []services.StaleOrder
	Malformed int
}

// GetStaleOrdersQueryHandler pages through the latest entry of every order
// that has been idle since before the threshold and keeps the active ones.
// The result is sorted by staleness, most overdue first.
type GetStaleOrdersQueryHandler struct {
	orders    ports.OrderRepository
	ledger    ports.HistoryLedger
	detector  services.StaleOrderDetector
	clock     func() time.Time
	batchSize int
}

func NewGetStaleOrdersQueryHandler(
	orders ports.OrderRepository,
	ledger ports.HistoryLedger,
	clock func() time.Time,
	batchSize int,
) GetStaleOrdersQueryHandler {
	if clock == nil {
		clock = time.Now
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return GetStaleOrdersQueryHandler{
		orders:    orders,
		ledger:    ledger,
		detector:  services.NewStaleOrderDetector(),
		clock:     clock,
		batchSize: batchSize,
	}
}

func (h GetStaleOrdersQueryHandler) Handle(ctx context.Context, query GetStaleOrdersQuery) (StaleOrdersReport, error) {
	if err := query.Validate(); err != nil {
		return StaleOrdersReport{}, err
	}

	now := h.clock()
	cutoff := now.Add(-query.Threshold())
	report := StaleOrdersReport{Orders: make([]services.StaleOrder, 0)}

	var after *kernel.UUID
	for {
		if err := ctx.Err(); err != nil {
			return StaleOrdersReport{}, err
		}

		page, err := h.ledger.LatestBefore(ctx, cutoff, after, h.batchSize)
		if err != nil {
			return StaleOrdersReport{}, err
		}
		report.Malformed += page.Malformed

		if len(page.Entries) > 0 {
			found, err := h.orders.GetMany(ctx, distinctOrderIDs(page.Entries))
			if err != nil {
				return StaleOrdersReport{}, err
			}
			for _, e := range page.Entries {
				if _, ok := found[e.OrderID()]; !ok {
					report.Malformed++
					continue
				}
				if s, ok := h.detector.Evaluate(e, query.Threshold(), now); ok {
					report.Orders = append(report.Orders, s)
				}
			}
		}

		if page.Next == nil {
			break
		}
		after = page.Next
	}

	slices.SortStableFunc(report.Orders, func(a, b services.StaleOrder) int {
		return cmp.Compare(b.Staleness, a.Staleness)
	})
	return report, nil
}
