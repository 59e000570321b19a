package queries

import (
	"context"
	"time"

	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
)

// GetOrderTimelineQueryHandler composes an order's timeline as of now.
type GetOrderTimelineQueryHandler struct {
	orders   ports.OrderRepository
	ledger   ports.HistoryLedger
	composer services.TimelineComposer
	clock    func() time.Time
}

func NewGetOrderTimelineQueryHandler(
	orders ports.OrderRepository,
	ledger ports.HistoryLedger,
	clock func() time.Time,
) GetOrderTimelineQueryHandler {
	if clock == nil {
		clock = time.Now
	}
	return GetOrderTimelineQueryHandler{
		orders:   orders,
		ledger:   ledger,
		composer: services.NewTimelineComposer(),
		clock:    clock,
	}
}

func (h GetOrderTimelineQueryHandler) Handle(ctx context.Context, query GetOrderTimelineQuery) (services.Timeline, error) {
	if err := query.Validate(); err != nil {
		return services.Timeline{}, err
	}

	if _, err := h.orders.Get(ctx, query.OrderID()); err != nil {
		return services.Timeline{}, err
	}

	entries, err := h.ledger.ByOrder(ctx, query.OrderID())
	if err != nil {
		return services.Timeline{}, err
	}

	return h.composer.Compose(query.OrderID(), entries, h.clock())
}
