package queries

import (
	"context"
	"errors"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/services"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"
)

// GetOperatorProductivityQueryHandler gathers the operator's entries, the
// full histories of the orders they delivered, and their display name.
// Unknown operators are reported under their id.
type GetOperatorProductivityQueryHandler struct {
	ledger     ports.HistoryLedger
	actors     ports.ActorDirectory
	calculator services.ProductivityCalculator
}

func NewGetOperatorProductivityQueryHandler(ledger ports.HistoryLedger, actors ports.ActorDirectory) GetOperatorProductivityQueryHandler {
	return GetOperatorProductivityQueryHandler{
		ledger:     ledger,
		actors:     actors,
		calculator: services.NewProductivityCalculator(),
	}
}

func (h GetOperatorProductivityQueryHandler) Handle(
	ctx context.Context,
	query GetOperatorProductivityQuery,
) (services.OperatorProductivity, error) {
	if err := query.Validate(); err != nil {
		return services.OperatorProductivity{}, err
	}

	authored, err := h.ledger.ByActorInRange(ctx, query.ActorID(), query.Window())
	if err != nil {
		return services.OperatorProductivity{}, err
	}

	delivered := h.calculator.DeliveredOrders(query.ActorID(), query.Window(), authored)
	histories := make(map[kernel.UUID][]*history.StatusTransition, len(delivered))
	for _, orderID := range delivered {
		if err = ctx.Err(); err != nil {
			return services.OperatorProductivity{}, err
		}
		entries, byOrderErr := h.ledger.ByOrder(ctx, orderID)
		if byOrderErr != nil {
			return services.OperatorProductivity{}, byOrderErr
		}
		histories[orderID] = entries
	}

	name, err := h.displayName(ctx, query.ActorID())
	if err != nil {
		return services.OperatorProductivity{}, err
	}

	return h.calculator.Calculate(query.ActorID(), name, query.Window(), authored, histories), nil
}

func (h GetOperatorProductivityQueryHandler) displayName(ctx context.Context, actorID kernel.UUID) (string, error) {
	name, err := h.actors.DisplayName(ctx, actorID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return actorID.String(), nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
