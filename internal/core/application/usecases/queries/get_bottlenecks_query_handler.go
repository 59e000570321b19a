package queries

import (
	"context"

	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
)

type GetBottlenecksQueryHandler struct {
	scanner ledgerScanner
}

func NewGetBottlenecksQueryHandler(orders ports.OrderRepository, ledger ports.HistoryLedger, batchSize int) GetBottlenecksQueryHandler {
	return GetBottlenecksQueryHandler{scanner: newLedgerScanner(orders, ledger, batchSize)}
}

func (h GetBottlenecksQueryHandler) Handle(ctx context.Context, query GetBottlenecksQuery) (services.Bottlenecks, error) {
	if err := query.Validate(); err != nil {
		return services.Bottlenecks{}, err
	}

	stats, err := h.scanner.stats(ctx, query.Window(), services.StatsFilter{})
	if err != nil {
		return services.Bottlenecks{}, err
	}
	return stats.Bottlenecks(query.TopN()), nil
}
