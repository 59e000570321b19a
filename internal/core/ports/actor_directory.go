package ports

import (
	"context"

	"servicedesk/internal/core/domain/model/kernel"
)

// ActorDirectory resolves who performed a transition.
type ActorDirectory interface {
	// DisplayName returns the actor's name or errs.ObjectNotFoundError.
	DisplayName(ctx context.Context, actorID kernel.UUID) (string, error)
}
