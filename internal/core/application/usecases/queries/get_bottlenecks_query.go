package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/pkg/errs"
	"servicedesk/internal/pkg/guard"
)

var ErrGetBottlenecksQueryIsNotConstructed = errors.New(
	"GetBottlenecksQuery must be created via NewGetBottlenecksQuery constructor",
)

// GetBottlenecksQuery asks for the topN slowest statuses and transitions.
type GetBottlenecksQuery struct {
	window history.Window
	topN   int

	guard guard.ConstructorGuard
}

func NewGetBottlenecksQuery(window history.Window, topN int) (GetBottlenecksQuery, error) {
	if err := validateWindow(window); err != nil {
		return GetBottlenecksQuery{}, err
	}
	if topN < 1 {
		return GetBottlenecksQuery{}, errs.NewValueIsOutOfRangeError("topN", topN, 1, "unbounded")
	}
	return GetBottlenecksQuery{window: window, topN: topN, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetBottlenecksQuery) Validate() error {
	return q.guard.Validate(ErrGetBottlenecksQueryIsNotConstructed)
}

func (q GetBottlenecksQuery) Window() history.Window {
	return q.window
}

func (q GetBottlenecksQuery) TopN() int {
	return q.topN
}
