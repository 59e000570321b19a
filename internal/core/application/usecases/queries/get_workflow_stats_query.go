package queries

import (
	"errors"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/pkg/guard"
)

var ErrGetWorkflowStatsQueryIsNotConstructed = errors.New(
	"GetWorkflowStatsQuery must be created via NewGetWorkflowStatsQuery constructor",
)

// GetWorkflowStatsQuery asks for counts and dwell averages over a window.
//
// Example:
//
//	window, _ := history.NewWindow(from, to)
//	status := order.AwaitingParts
//	query, err := NewGetWorkflowStatsQuery(window, services.StatsFilter{Status: &status})
type GetWorkflowStatsQuery struct {
	window history.Window
	filter services.StatsFilter

	guard guard.ConstructorGuard
}

func NewGetWorkflowStatsQuery(window history.Window, filter services.StatsFilter) (GetWorkflowStatsQuery, error) {
	if err := validateWindow(window); err != nil {
		return GetWorkflowStatsQuery{}, err
	}
	if err := validateFilter(filter); err != nil {
		return GetWorkflowStatsQuery{}, err
	}
	return GetWorkflowStatsQuery{window: window, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWorkflowStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkflowStatsQueryIsNotConstructed)
}

func (q GetWorkflowStatsQuery) Window() history.Window {
	return q.window
}

func (q GetWorkflowStatsQuery) Filter() services.StatsFilter {
	return q.filter
}

func validateWindow(w history.Window) error {
	_, err := history.NewWindow(w.From, w.To)
	return err
}

func validateFilter(f services.StatsFilter) error {
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.ActorID != nil {
		if err := f.ActorID.Validate(); err != nil {
			return err
		}
	}
	return nil
}
