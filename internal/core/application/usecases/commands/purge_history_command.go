package commands

import (
	"errors"
	"time"

	"servicedesk/internal/pkg/errs"
	"servicedesk/internal/pkg/guard"
)

var ErrPurgeHistoryCommandIsNotConstructed = errors.New(
	"PurgeHistoryCommand must be created via NewPurgeHistoryCommand constructor",
)

// PurgeHistoryCommand asks to drop the histories of finished orders that
// have been quiet since before OlderThan.
type PurgeHistoryCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Time

	guard guard.ConstructorGuard
}

func NewPurgeHistoryCommand(olderThan time.Time) (PurgeHistoryCommand, error) {
	if olderThan.IsZero() {
		return PurgeHistoryCommand{}, errs.NewValueIsRequiredError("olderThan")
	}
	return PurgeHistoryCommand{
		olderThan: olderThan,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeHistoryCommand) Validate() error {
	return c.guard.Validate(ErrPurgeHistoryCommandIsNotConstructed)
}

func (c PurgeHistoryCommand) OlderThan() time.Time {
	return c.olderThan
}
