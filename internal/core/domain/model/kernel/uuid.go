package kernel

import (
	"bytes"
	"fmt"

	"servicedesk/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies orders, operators and ledger entries. It wraps
// github.com/google/uuid so that the zero value is detectably invalid.
//
// Example:
//
//	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
//	if err != nil {
//	    return fmt.Errorf("invalid order ID: %w", err)
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the standard, braced, urn and hyphen-less forms.
// The nil UUID is rejected.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("UUID", fmt.Errorf("invalid UUID format: %w", err))
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// UUIDFromBytes creates a UUID from exactly 16 bytes.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical hyphenated form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying google UUID, used by persistence adapters.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Compare orders UUIDs bytewise, which matches PostgreSQL's ordering of the
// uuid type. Keyset pagination over the ledger relies on this.
func (u UUID) Compare(other UUID) int {
	return bytes.Compare(u.id[:], other.id[:])
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler for JSON export.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := UUIDFromString(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
