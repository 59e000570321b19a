// Package orderrepo persists the service-desk view of orders. The core only
// reads orders and moves their cached status; Add exists for seeding the
// store and for tests.
package orderrepo

import (
	"time"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the service_orders table. Status holds the wire
// name and is empty while the order has no history.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status        string     `gorm:"type:varchar(32);index"`
	StatusVersion int        `gorm:"not null;default:0"`
	Type          string     `gorm:"type:varchar(16);not null"`
	Priority      string     `gorm:"type:varchar(16);not null"`
	OperatorID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time  `gorm:"type:timestamptz;not null"`
}

// TableName overrides GORM's default naming.
func (OrderDTO) TableName() string {
	return "service_orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var operatorID *uuid.UUID
	if id := o.Operator(); id != nil {
		raw := id.Bytes()
		operatorID = &raw
	}

	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		StatusVersion: o.Version(),
		Type:          string(o.Type()),
		Priority:      string(o.Priority()),
		OperatorID:    operatorID,
		CreatedAt:     o.CreatedAt(),
	}
	if o.Status() != order.Unknown {
		dto.Status = o.Status().String()
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var operatorID *kernel.UUID
	if dto.OperatorID != nil {
		opID, opErr := kernel.UUIDFromBytes((*dto.OperatorID)[:])
		if opErr != nil {
			return nil, opErr
		}
		operatorID = &opID
	}

	status := order.Unknown
	if dto.Status != "" {
		if status, err = order.ParseStatus(dto.Status); err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(
		id,
		status,
		dto.StatusVersion,
		order.Type(dto.Type),
		order.Priority(dto.Priority),
		operatorID,
		dto.CreatedAt,
	)
}
