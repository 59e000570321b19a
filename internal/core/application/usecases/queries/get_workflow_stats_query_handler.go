package queries

import (
	"context"

	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
)

// GetWorkflowStatsQueryHandler runs one grouped pass over the window.
// Filters are applied in the accumulator rather than in the ledger query so
// that dwell pairs always see an order's neighbouring entries.
type GetWorkflowStatsQueryHandler struct {
	scanner ledgerScanner
}

func NewGetWorkflowStatsQueryHandler(orders ports.OrderRepository, ledger ports.HistoryLedger, batchSize int) GetWorkflowStatsQueryHandler {
	return GetWorkflowStatsQueryHandler{scanner: newLedgerScanner(orders, ledger, batchSize)}
}

// Handle returns the statistics. Cancelling ctx stops the scan between pages.
func (h GetWorkflowStatsQueryHandler) Handle(ctx context.Context, query GetWorkflowStatsQuery) (services.WorkflowStats, error) {
	if err := query.Validate(); err != nil {
		return services.WorkflowStats{}, err
	}
	return h.scanner.stats(ctx, query.Window(), query.Filter())
}
