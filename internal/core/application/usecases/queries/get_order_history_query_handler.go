package queries

import (
	"context"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/ports"
)

// GetOrderHistoryQueryHandler returns an order's ledger, oldest first.
//
// Example:
//
//	handler := NewGetOrderHistoryQueryHandler(orderRepo, ledger)
//	query, _ := NewGetOrderHistoryQuery(orderID)
//	entries, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetOrderHistoryQueryHandler struct {
	orders ports.OrderRepository
	ledger ports.HistoryLedger
}

func NewGetOrderHistoryQueryHandler(orders ports.OrderRepository, ledger ports.HistoryLedger) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{orders: orders, ledger: ledger}
}

// Handle fails with errs.ObjectNotFoundError for unknown orders. A known
// order without history yields an empty slice.
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]*history.StatusTransition, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.orders.Get(ctx, query.OrderID()); err != nil {
		return nil, err
	}

	entries, err := h.ledger.ByOrder(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*history.StatusTransition{}
	}
	return entries, nil
}
