package order

import (
	"fmt"

	"servicedesk/internal/pkg/errs"
)

// Status is the lifecycle state of a service order.
//
// The zero value Unknown doubles as "no predecessor": the first ledger entry
// of every order is the transition Unknown -> Received.
//
//	Received ──> Diagnosing ──┬──> AwaitingParts ───┐
//	                ▲         ├──> AwaitingApproval ┤
//	                │         └────────────────────>├──> Repairing <──┐
//	                │                               │       │         │
//	                │                               │       ▼         │
//	             Warranty <── Delivered <── ReadyForPickup <── Testing
//
// Cancelled is reachable from Received, Diagnosing, both awaiting states and
// Repairing. Once testing starts an order can no longer be cancelled, and
// Cancelled has no exits.
type Status int

const (
	// Unknown is an invalid status; it stands for "none" as a predecessor.
	Unknown Status = iota
	Received
	Diagnosing
	AwaitingParts
	AwaitingApproval
	Repairing
	Testing
	ReadyForPickup
	Delivered
	Cancelled
	Warranty
)

// getStatusStrings maps valid statuses to their wire names.
func getStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown has no wire name
	return map[Status]string{
		Received:         "RECEIVED",
		Diagnosing:       "DIAGNOSING",
		AwaitingParts:    "AWAITING_PARTS",
		AwaitingApproval: "AWAITING_APPROVAL",
		Repairing:        "REPAIRING",
		Testing:          "TESTING",
		ReadyForPickup:   "READY_FOR_PICKUP",
		Delivered:        "DELIVERED",
		Cancelled:        "CANCELLED",
		Warranty:         "WARRANTY",
	}
}

// AllStatuses returns every valid status in declaration order.
func AllStatuses() []Status {
	return []Status{
		Received,
		Diagnosing,
		AwaitingParts,
		AwaitingApproval,
		Repairing,
		Testing,
		ReadyForPickup,
		Delivered,
		Cancelled,
		Warranty,
	}
}

// ParseStatus converts a wire name such as "AWAITING_PARTS" into a Status.
//
// Returns a ValueIsInvalidError for unknown names, including the empty string.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the value is one of the ten lifecycle statuses.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status has no outgoing edges. Only
// Cancelled is terminal; Delivered can still move to Warranty.
func (s Status) IsTerminal() bool {
	return s == Cancelled
}

// IsActive reports whether an order in this status is still being worked on.
// Delivered and Cancelled orders are finished for processing-time and
// staleness purposes.
func (s Status) IsActive() bool {
	return s.Validate() == nil && s != Delivered && s != Cancelled
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
