package commands

import (
	"context"
	"time"

	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"
)

// DefaultProtectedRetention is how far back the ledger is always kept.
const DefaultProtectedRetention = 365 * 24 * time.Hour

// PurgeHistoryCommandHandler removes whole order histories from the ledger.
//
// Business rules:
//   - the cutoff must not fall inside the protected window (now minus
//     the protected retention); such requests fail with RetentionPolicyError
//   - only orders whose latest entry is older than the cutoff and finished
//     (Delivered or Cancelled) are purged, each one completely
type PurgeHistoryCommandHandler struct {
	uowFactory LedgerUoWFactory
	protected  time.Duration
	clock      func() time.Time
}

func NewPurgeHistoryCommandHandler(uowFactory LedgerUoWFactory, protected time.Duration, clock func() time.Time) PurgeHistoryCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return PurgeHistoryCommandHandler{
		uowFactory: uowFactory,
		protected:  protected,
		clock:      clock,
	}
}

func (h PurgeHistoryCommandHandler) Handle(ctx context.Context, cmd PurgeHistoryCommand) (ports.PurgeResult, error) {
	if err := cmd.Validate(); err != nil {
		return ports.PurgeResult{}, err
	}

	boundary := h.clock().Add(-h.protected)
	if cmd.OlderThan().After(boundary) {
		return ports.PurgeResult{}, errs.NewRetentionPolicyError(cmd.OlderThan(), boundary)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.PurgeResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result, err := uow.HistoryLedger().PurgeOlderThan(ctx, cmd.OlderThan())
	if err != nil {
		return ports.PurgeResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.PurgeResult{}, err
	}

	return result, nil
}
