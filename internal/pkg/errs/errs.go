package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrRetentionPolicy        = errors.New("retention policy violated")
)

// sanitize flattens multi-line values so error messages stay on one log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// ObjectNotFoundError reports a missing entity, e.g. an order id that the
// order store cannot resolve.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is the validation failure for a malformed or
// semantically wrong value (unknown status, no-op transition, ...).
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError is returned when a (from, to) pair is not an edge of
// the status graph.
type InvalidTransitionError struct {
	From  string
	To    string
	Cause error
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func NewInvalidTransitionErrorWithCause(from, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %v)", ErrInvalidTransition, e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrentModificationError signals a lost optimistic race on an entity.
// It is the only error callers are expected to retry.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
	Expected  string
	Actual    string
}

func NewConcurrentModificationError(paramName string, id any, expected, actual string) *ConcurrentModificationError {
	return &ConcurrentModificationError{
		ParamName: paramName,
		ID:        id,
		Expected:  expected,
		Actual:    actual,
	}
}

func (e *ConcurrentModificationError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("%s: %s %s, expected %s", ErrConcurrentModification, e.ParamName, e.ID, e.Expected)
	}
	return fmt.Sprintf("%s: %s %s, expected %s, found %s",
		ErrConcurrentModification, e.ParamName, e.ID, e.Expected, e.Actual)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// RetentionPolicyError rejects a purge whose cutoff falls inside the
// protected retention window.
type RetentionPolicyError struct {
	Cutoff         time.Time
	ProtectedAfter time.Time
}

func NewRetentionPolicyError(cutoff, protectedAfter time.Time) *RetentionPolicyError {
	return &RetentionPolicyError{
		Cutoff:         cutoff,
		ProtectedAfter: protectedAfter,
	}
}

func (e *RetentionPolicyError) Error() string {
	return fmt.Sprintf("%s: cutoff %s is after protected boundary %s",
		ErrRetentionPolicy,
		e.Cutoff.UTC().Format(time.RFC3339),
		e.ProtectedAfter.UTC().Format(time.RFC3339))
}

func (e *RetentionPolicyError) Unwrap() error {
	return ErrRetentionPolicy
}
