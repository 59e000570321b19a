package historyrepo

import (
	"context"
	"errors"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const latestPerOrder = `SELECT DISTINCT ON (order_id) * FROM status_transitions ORDER BY order_id, occurred_at DESC`

// GormHistoryLedger implements ports.HistoryLedger using GORM.
type GormHistoryLedger struct {
	db *gorm.DB
}

// NewGormHistoryLedger creates a ledger on db, which may be a transaction.
func NewGormHistoryLedger(db *gorm.DB) *GormHistoryLedger {
	return &GormHistoryLedger{db: db}
}

// Append inserts an entry. A duplicate (order_id, occurred_at) means another
// writer got there first.
func (l *GormHistoryLedger) Append(ctx context.Context, entry *history.StatusTransition) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	err := l.db.WithContext(ctx).Create(&dto).Error
	if err == nil {
		return nil
	}
	if translator, ok := l.db.Dialector.(gorm.ErrorTranslator); ok {
		err = translator.Translate(err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConcurrentModificationError("order", entry.OrderID(),
			"free slot at "+entry.OccurredAt().UTC().Format(time.RFC3339Nano), "")
	}
	return err
}

func (l *GormHistoryLedger) ByOrder(ctx context.Context, orderID kernel.UUID) ([]*history.StatusTransition, error) {
	var dtos []TransitionDTO
	err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("occurred_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (l *GormHistoryLedger) LastForOrder(ctx context.Context, orderID kernel.UUID) (*history.StatusTransition, error) {
	var dto TransitionDTO
	err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("occurred_at DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("orderID", orderID)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (l *GormHistoryLedger) ByStatusInRange(
	ctx context.Context,
	status order.Status,
	window history.Window,
) ([]*history.StatusTransition, error) {
	var dtos []TransitionDTO
	err := l.db.WithContext(ctx).
		Where("to_status = ? AND occurred_at BETWEEN ? AND ?", status.String(), window.From, window.To).
		Order("occurred_at, order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (l *GormHistoryLedger) ByActorInRange(
	ctx context.Context,
	actorID kernel.UUID,
	window history.Window,
) ([]*history.StatusTransition, error) {
	var dtos []TransitionDTO
	err := l.db.WithContext(ctx).
		Where("actor_id = ? AND occurred_at BETWEEN ? AND ?", actorID.Bytes(), window.From, window.To).
		Order("occurred_at, order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// InRange pages through a window by (order_id, occurred_at). Rows that do
// not decode are counted in Malformed instead of failing the scan.
func (l *GormHistoryLedger) InRange(
	ctx context.Context,
	window history.Window,
	after *ports.LedgerCursor,
	limit int,
) (ports.LedgerPage, error) {
	q := l.db.WithContext(ctx).Where("occurred_at BETWEEN ? AND ?", window.From, window.To)
	if after != nil {
		q = q.Where("(order_id, occurred_at) > (?, ?)", after.OrderID.Bytes(), after.OccurredAt)
	}

	var dtos []TransitionDTO
	if err := q.Order("order_id, occurred_at").Limit(limit).Find(&dtos).Error; err != nil {
		return ports.LedgerPage{}, err
	}

	page := ports.LedgerPage{Entries: make([]*history.StatusTransition, 0, len(dtos))}
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			page.Malformed++
			continue
		}
		page.Entries = append(page.Entries, e)
	}

	if len(dtos) == limit && limit > 0 {
		last := dtos[len(dtos)-1]
		orderID, err := kernel.UUIDFromBytes(last.OrderID[:])
		if err != nil {
			return ports.LedgerPage{}, err
		}
		page.Next = &ports.LedgerCursor{OrderID: orderID, OccurredAt: last.OccurredAt}
	}
	return page, nil
}

func (l *GormHistoryLedger) NextAfter(
	ctx context.Context,
	orderIDs []kernel.UUID,
	after time.Time,
) (map[kernel.UUID]*history.StatusTransition, error) {
	out := make(map[kernel.UUID]*history.StatusTransition, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	var dtos []TransitionDTO
	err := l.db.WithContext(ctx).Raw(
		`SELECT DISTINCT ON (order_id) * FROM status_transitions
		 WHERE order_id IN ? AND occurred_at > ?
		 ORDER BY order_id, occurred_at`,
		rawIDs(orderIDs), after,
	).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		e, decodeErr := toDomain(dto)
		if decodeErr != nil {
			continue
		}
		out[e.OrderID()] = e
	}
	return out, nil
}

// LatestBefore pages through the latest entry per order by order id. Rows
// that do not decode are counted in Malformed and still move the cursor, so
// one bad row never ends the scan early.
func (l *GormHistoryLedger) LatestBefore(
	ctx context.Context,
	cutoff time.Time,
	afterOrder *kernel.UUID,
	limit int,
) (ports.LatestPage, error) {
	q := l.db.WithContext(ctx).
		Table("(?) AS latest", l.db.Raw(latestPerOrder)).
		Where("occurred_at < ?", cutoff)
	if afterOrder != nil {
		q = q.Where("order_id > ?", afterOrder.Bytes())
	}

	var dtos []TransitionDTO
	if err := q.Order("order_id").Limit(limit).Find(&dtos).Error; err != nil {
		return ports.LatestPage{}, err
	}

	page := ports.LatestPage{Entries: make([]*history.StatusTransition, 0, len(dtos))}
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			page.Malformed++
			continue
		}
		page.Entries = append(page.Entries, e)
	}

	if len(dtos) == limit && limit > 0 {
		next, err := kernel.UUIDFromBytes(dtos[len(dtos)-1].OrderID[:])
		if err != nil {
			return ports.LatestPage{}, err
		}
		page.Next = &next
	}
	return page, nil
}

// PurgeOlderThan removes whole histories of finished orders whose last entry
// is older than cutoff. The candidate order rows are locked first and the
// candidates re-read under the lock; purged orders get their status_version
// bumped, so a transition that appended before the purge committed loses its
// compare-and-swap and rolls its entry back.
func (l *GormHistoryLedger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (ports.PurgeResult, error) {
	db := l.db.WithContext(ctx)
	finished := []string{order.Delivered.String(), order.Cancelled.String()}

	var candidates []uuid.UUID
	err := db.Raw(
		`SELECT order_id FROM (`+latestPerOrder+`) AS latest
		 WHERE occurred_at < ? AND to_status IN ?`,
		cutoff, finished,
	).Scan(&candidates).Error
	if err != nil {
		return ports.PurgeResult{}, err
	}
	if len(candidates) == 0 {
		return ports.PurgeResult{}, nil
	}

	if err = db.Exec(`SELECT id FROM service_orders WHERE id IN ? ORDER BY id FOR UPDATE`, candidates).Error; err != nil {
		return ports.PurgeResult{}, err
	}

	var removed []uuid.UUID
	err = db.Raw(
		`DELETE FROM status_transitions WHERE order_id IN (
		   SELECT order_id FROM (`+latestPerOrder+`) AS latest
		   WHERE order_id IN ? AND occurred_at < ? AND to_status IN ?
		 ) RETURNING order_id`,
		candidates, cutoff, finished,
	).Scan(&removed).Error
	if err != nil {
		return ports.PurgeResult{}, err
	}

	orders := make(map[uuid.UUID]struct{}, len(removed))
	for _, id := range removed {
		orders[id] = struct{}{}
	}
	if len(orders) > 0 {
		purged := make([]uuid.UUID, 0, len(orders))
		for id := range orders {
			purged = append(purged, id)
		}
		err = db.Exec(`UPDATE service_orders SET status_version = status_version + 1 WHERE id IN ?`, purged).Error
		if err != nil {
			return ports.PurgeResult{}, err
		}
	}
	return ports.PurgeResult{Orders: len(orders), Entries: len(removed)}, nil
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}
