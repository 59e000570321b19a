package history

import (
	"fmt"
	"time"

	"servicedesk/internal/pkg/errs"
)

// Window is a closed time interval [From, To] used by ledger range queries
// and analytics.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow returns the window, rejecting zero bounds and From after To.
func NewWindow(from, to time.Time) (Window, error) {
	if from.IsZero() {
		return Window{}, errs.NewValueIsRequiredError("from")
	}
	if to.IsZero() {
		return Window{}, errs.NewValueIsRequiredError("to")
	}
	if from.After(to) {
		return Window{}, errs.NewValueIsInvalidErrorWithCause("window",
			fmt.Errorf("from %s is after to %s", from.Format(time.RFC3339), to.Format(time.RFC3339)))
	}
	return Window{From: from, To: to}, nil
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}
