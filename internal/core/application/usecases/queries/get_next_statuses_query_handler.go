package queries

import (
	"context"
	"errors"

	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"
)

// GetNextStatusesQueryHandler reads the current status from the ledger and
// asks the status graph for its successors.
type GetNextStatusesQueryHandler struct {
	orders ports.OrderRepository
	ledger ports.HistoryLedger
	graph  order.StatusGraph
}

func NewGetNextStatusesQueryHandler(orders ports.OrderRepository, ledger ports.HistoryLedger) GetNextStatusesQueryHandler {
	return GetNextStatusesQueryHandler{orders: orders, ledger: ledger, graph: order.NewStatusGraph()}
}

func (h GetNextStatusesQueryHandler) Handle(ctx context.Context, query GetNextStatusesQuery) (GetNextStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetNextStatusesQueryResponse{}, err
	}

	if _, err := h.orders.Get(ctx, query.OrderID()); err != nil {
		return GetNextStatusesQueryResponse{}, err
	}

	current := order.Unknown
	last, err := h.ledger.LastForOrder(ctx, query.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return GetNextStatusesQueryResponse{}, err
	default:
		current = last.To()
	}

	return GetNextStatusesQueryResponse{
		Current: current,
		Next:    h.graph.NextPossibleStatuses(current),
	}, nil
}
