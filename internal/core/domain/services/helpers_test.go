package services_test

import (
	"testing"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

type step struct {
	to    order.Status
	at    time.Duration
	actor kernel.UUID
}

// ledgerFor builds a well-formed ledger for one order, starting with the
// seeding entry at t0+steps[0].at.
func ledgerFor(t *testing.T, orderID kernel.UUID, steps ...step) []*history.StatusTransition {
	t.Helper()

	entries := make([]*history.StatusTransition, 0, len(steps))
	from := order.Unknown
	for _, s := range steps {
		actor := s.actor
		if actor.Validate() != nil {
			actor = kernel.NewUUID()
		}
		e, err := history.NewStatusTransition(orderID, from, s.to, order.DefaultReason(s.to), actor, t0.Add(s.at))
		require.NoError(t, err)
		entries = append(entries, e)
		from = s.to
	}
	return entries
}
