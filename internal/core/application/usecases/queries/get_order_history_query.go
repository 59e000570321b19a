package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery asks for the full ledger of one order.
type GetOrderHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	return GetOrderHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}
