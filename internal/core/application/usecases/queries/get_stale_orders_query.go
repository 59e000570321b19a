package queries

import (
	"errors"
	"time"

	"servicedesk/internal/pkg/errs"
	"servicedesk/internal/pkg/guard"
)

var ErrGetStaleOrdersQueryIsNotConstructed = errors.New(
	"GetStaleOrdersQuery must be created via NewGetStaleOrdersQuery constructor",
)

// GetStaleOrdersQuery asks for active orders idle for more than
// thresholdHours.
type GetStaleOrdersQuery struct {
	threshold time.Duration

	guard guard.ConstructorGuard
}

func NewGetStaleOrdersQuery(thresholdHours int) (GetStaleOrdersQuery, error) {
	if thresholdHours < 1 {
		return GetStaleOrdersQuery{}, errs.NewValueIsOutOfRangeError("thresholdHours", thresholdHours, 1, "unbounded")
	}
	return GetStaleOrdersQuery{
		threshold: time.Duration(thresholdHours) * time.Hour,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStaleOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleOrdersQueryIsNotConstructed)
}

func (q GetStaleOrdersQuery) Threshold() time.Duration {
	return q.threshold
}
