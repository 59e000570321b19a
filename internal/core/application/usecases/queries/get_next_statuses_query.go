package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/guard"
)

var ErrGetNextStatusesQueryIsNotConstructed = errors.New(
	"GetNextStatusesQuery must be created via NewGetNextStatusesQuery constructor",
)

// GetNextStatusesQuery asks which statuses an order may move to from where it
// is now.
type GetNextStatusesQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetNextStatusesQuery(orderID kernel.UUID) (GetNextStatusesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetNextStatusesQuery{}, err
	}
	return GetNextStatusesQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetNextStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetNextStatusesQueryIsNotConstructed)
}

func (q GetNextStatusesQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetNextStatusesQueryResponse carries the current status (order.Unknown
// before seeding) and its successors.
type GetNextStatusesQueryResponse struct {
	Current order.Status
	Next    []order.Status
}
