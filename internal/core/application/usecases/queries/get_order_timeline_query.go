package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/pkg/guard"
)

var ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
	"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
)

// GetOrderTimelineQuery asks for the per-status dwell view of one order.
type GetOrderTimelineQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderTimelineQuery(orderID kernel.UUID) (GetOrderTimelineQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTimelineQuery{}, err
	}
	return GetOrderTimelineQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

func (q GetOrderTimelineQuery) OrderID() kernel.UUID {
	return q.orderID
}
