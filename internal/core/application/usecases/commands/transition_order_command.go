package commands

import (
	"errors"

	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move an order to a new status.
//
// ExpectedStatus pins the status the caller believes the order is in. When it
// is set and the order has moved on, the command fails instead of applying
// the change on top of a state the caller never saw.
//
// Example:
//
//	expected := order.Diagnosing
//	cmd, err := NewTransitionOrderCommand(orderID, order.Repairing, "", actorID, &expected)
//	if err != nil {
//	    return err
//	}
//	entry, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	toStatus       order.Status
	reason         string
	actorID        kernel.UUID
	expectedStatus *order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the ids and the target status. An empty
// reason is replaced with the default reason of the target when the command
// is handled.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	toStatus order.Status,
	reason string,
	actorID kernel.UUID,
	expectedStatus *order.Status,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setToStatus(toStatus),
		cmd.setActorID(actorID),
		cmd.setExpectedStatus(expectedStatus),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) ToStatus() order.Status {
	return c.toStatus
}

// Reason returns the caller's reason, possibly empty.
func (c TransitionOrderCommand) Reason() string {
	return c.reason
}

func (c TransitionOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ExpectedStatus returns the pinned current status, or nil.
func (c TransitionOrderCommand) ExpectedStatus() *order.Status {
	return c.expectedStatus
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setToStatus(s order.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.toStatus = s
	return nil
}

func (c *TransitionOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}

func (c *TransitionOrderCommand) setExpectedStatus(s *order.Status) error {
	if s == nil {
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}
	expected := *s
	c.expectedStatus = &expected
	return nil
}
