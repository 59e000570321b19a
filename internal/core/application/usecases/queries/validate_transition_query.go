package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/guard"
)

var ErrValidateTransitionQueryIsNotConstructed = errors.New(
	"ValidateTransitionQuery must be created via NewValidateTransitionQuery constructor",
)

// ValidateTransitionQuery checks a (from, to) pair against the status graph
// without touching any order. From order.Unknown stands for "no predecessor".
type ValidateTransitionQuery struct {
	from order.Status
	to   order.Status

	guard guard.ConstructorGuard
}

// NewValidateTransitionQuery accepts any values; unknown statuses are
// reported by the handler as an invalid verdict rather than an error.
func NewValidateTransitionQuery(from, to order.Status) ValidateTransitionQuery {
	return ValidateTransitionQuery{from: from, to: to, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ValidateTransitionQuery) Validate() error {
	return q.guard.Validate(ErrValidateTransitionQueryIsNotConstructed)
}

func (q ValidateTransitionQuery) From() order.Status {
	return q.from
}

func (q ValidateTransitionQuery) To() order.Status {
	return q.to
}

// ValidateTransitionQueryResponse is the verdict. Reason is empty when Valid.
type ValidateTransitionQueryResponse struct {
	Valid  bool
	Reason string
}
