package queries

import (
	"servicedesk/internal/core/domain/model/order"
)

// ValidateTransitionQueryHandler is a pure check; it holds no ports.
type ValidateTransitionQueryHandler struct {
	graph order.StatusGraph
}

func NewValidateTransitionQueryHandler() ValidateTransitionQueryHandler {
	return ValidateTransitionQueryHandler{graph: order.NewStatusGraph()}
}

// Handle returns the verdict. The error is reserved for unconstructed
// queries.
func (h ValidateTransitionQueryHandler) Handle(query ValidateTransitionQuery) (ValidateTransitionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ValidateTransitionQueryResponse{}, err
	}

	if err := h.graph.ValidateTransition(query.From(), query.To()); err != nil {
		return ValidateTransitionQueryResponse{Valid: false, Reason: err.Error()}, nil
	}
	return ValidateTransitionQueryResponse{Valid: true}, nil
}
