// Package historyrepo is the PostgreSQL history ledger. Rows are only ever
// inserted, read, and purged in whole-order batches.
package historyrepo

import (
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// TransitionDTO is the row of the status_transitions table. The unique
// (order_id, occurred_at) index makes two writers racing on one order
// collide; the other indexes serve the range queries.
type TransitionDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transitions_order_time,priority:1"`
	FromStatus string    `gorm:"type:varchar(32)"`
	ToStatus   string    `gorm:"type:varchar(32);not null;index:idx_transitions_to_time,priority:1"`
	Reason     string    `gorm:"type:text;not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_transitions_actor_time,priority:1"`
	OccurredAt time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_transitions_order_time,priority:2;index:idx_transitions_to_time,priority:2;index:idx_transitions_actor_time,priority:2"`
}

// TableName overrides GORM's default naming.
func (TransitionDTO) TableName() string {
	return "status_transitions"
}

func fromDomain(e *history.StatusTransition) TransitionDTO {
	dto := TransitionDTO{
		ID:         e.ID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		ToStatus:   e.To().String(),
		Reason:     e.Reason(),
		ActorID:    e.ActorID().Bytes(),
		OccurredAt: e.OccurredAt().UTC(),
	}
	if !e.IsInitial() {
		dto.FromStatus = e.From().String()
	}
	return dto
}

func toDomain(dto TransitionDTO) (*history.StatusTransition, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	from := order.Unknown
	if dto.FromStatus != "" {
		if from, err = order.ParseStatus(dto.FromStatus); err != nil {
			return nil, err
		}
	}
	to, err := order.ParseStatus(dto.ToStatus)
	if err != nil {
		return nil, err
	}

	return history.RestoreStatusTransition(id, orderID, from, to, dto.Reason, actorID, dto.OccurredAt.UTC())
}

// toDomainAll decodes rows, failing on the first bad one. Point reads use
// it; a bad row there means the ledger is damaged.
func toDomainAll(dtos []TransitionDTO) ([]*history.StatusTransition, error) {
	out := make([]*history.StatusTransition, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
