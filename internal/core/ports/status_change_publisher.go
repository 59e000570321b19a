package ports

import (
	"context"

	"servicedesk/internal/core/domain/model/history"
)

// StatusChangePublisher hands committed transitions to whatever delivers
// customer notifications.
type StatusChangePublisher interface {
	Publish(ctx context.Context, entry *history.StatusTransition) error
}
