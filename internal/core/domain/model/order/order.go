package order

import (
	"errors"
	"fmt"
	"time"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Type classifies the kind of job. A warranty job and the Warranty status are
// different things: a Repair order that comes back after delivery re-enters
// the graph through the Warranty status while keeping its Repair type.
type Type string

const (
	TypeRepair   Type = "REPAIR"
	TypeWarranty Type = "WARRANTY"
	TypeEstimate Type = "ESTIMATE"
)

// Validate checks the type is one of the known values.
func (t Type) Validate() error {
	switch t {
	case TypeRepair, TypeWarranty, TypeEstimate:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%q is not a valid order type", string(t)))
	}
}

// Priority is the customer-facing urgency of the job.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Validate checks the priority is one of the known values.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("priority is invalid", fmt.Errorf("%q is not a valid priority", string(p)))
	}
}

// Order is the read model of a service order as the core sees it. The order
// record itself belongs to the external order store; the core reads it and
// changes only the cached status, through OrderRepository.UpdateStatus.
//
// Invariants:
//   - status equals the target of the order's latest ledger entry, or is
//     Unknown/Received while the ledger is still empty
//   - version increases by one with every committed status change
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// status is the cached current status
	status Status

	// version is the optimistic-concurrency counter for status
	version int

	orderType Type
	priority  Priority

	// operatorID is the assigned technician (nil if unassigned)
	operatorID *kernel.UUID

	createdAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an order that has not been seeded into the ledger yet.
// Its cached status is Received and its version 0; the creator is expected
// to call the transition use case with Received right away.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.TypeRepair, order.PriorityNormal, nil, time.Now())
//	if err != nil {
//	    return err
//	}
func NewOrder(id kernel.UUID, orderType Type, priority Priority, operatorID *kernel.UUID, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Received,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setType(orderType),
		o.setPriority(priority),
		o.setOperator(operatorID),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. status may be Unknown for
// orders the store created without a status.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	version int,
	orderType Type,
	priority Priority,
	operatorID *kernel.UUID,
	createdAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, orderType, priority, operatorID, createdAt)
	if err != nil {
		return nil, err
	}

	if status != Unknown {
		if err = status.Validate(); err != nil {
			return nil, err
		}
	}
	if version < 0 {
		return nil, errs.NewValueIsOutOfRangeError("version", version, 0, "unbounded")
	}

	o.status = status
	o.version = version
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the cached current status.
func (o *Order) Status() Status {
	return o.status
}

// Version returns the optimistic-concurrency counter of the cached status.
func (o *Order) Version() int {
	return o.version
}

func (o *Order) Type() Type {
	return o.orderType
}

func (o *Order) Priority() Priority {
	return o.priority
}

// Operator returns the assigned operator, or nil.
func (o *Order) Operator() *kernel.UUID {
	return o.operatorID
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.orderType = t
	return nil
}

func (o *Order) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}

func (o *Order) setOperator(operatorID *kernel.UUID) error {
	if operatorID == nil {
		return nil
	}
	if err := operatorID.Validate(); err != nil {
		return err
	}
	id := *operatorID
	o.operatorID = &id
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
