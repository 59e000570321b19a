package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/pkg/guard"
)

var ErrGetOperatorProductivityQueryIsNotConstructed = errors.New(
	"GetOperatorProductivityQuery must be created via NewGetOperatorProductivityQuery constructor",
)

// GetOperatorProductivityQuery asks what one operator got done in a window.
type GetOperatorProductivityQuery struct {
	actorID kernel.UUID
	window  history.Window

	guard guard.ConstructorGuard
}

func NewGetOperatorProductivityQuery(actorID kernel.UUID, window history.Window) (GetOperatorProductivityQuery, error) {
	if err := errors.Join(actorID.Validate(), validateWindow(window)); err != nil {
		return GetOperatorProductivityQuery{}, err
	}
	return GetOperatorProductivityQuery{actorID: actorID, window: window, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOperatorProductivityQuery) Validate() error {
	return q.guard.Validate(ErrGetOperatorProductivityQueryIsNotConstructed)
}

func (q GetOperatorProductivityQuery) ActorID() kernel.UUID {
	return q.actorID
}

func (q GetOperatorProductivityQuery) Window() history.Window {
	return q.window
}
