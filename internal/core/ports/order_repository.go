// Package ports defines the interfaces the service-desk core consumes.
// Adapters under internal/adapters implement them; tests substitute fakes.
package ports

import (
	"context"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
)

// OrderRepository is the core's view of the external order store. The core
// never creates or deletes orders; it reads them and moves the cached status.
type OrderRepository interface {
	// Get returns the order or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetMany resolves several orders at once. Unknown ids are absent from the
	// result rather than reported as errors.
	GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*order.Order, error)

	// UpdateStatus sets the cached status if the stored version still equals
	// expectedVersion, bumping the version by one. A lost race returns an
	// errs.ConcurrentModificationError and changes nothing.
	//
	// Example:
	//   if err := repo.UpdateStatus(ctx, o.ID(), o.Version(), order.Repairing); err != nil {
	//       return err
	//   }
	UpdateStatus(ctx context.Context, id kernel.UUID, expectedVersion int, next order.Status) error
}
