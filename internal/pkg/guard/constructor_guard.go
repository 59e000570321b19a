// Package guard holds the constructor guard used by commands, queries and
// value objects to reject zero-value instances.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a
// nil validation error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built through its constructor. Embed it
// as a field, set it with NewConstructorGuard in the constructor, and call
// Validate from the struct's own Validate method:
//
//	type HistoryQuery struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (q HistoryQuery) Validate() error {
//	    return q.guard.Validate(ErrHistoryQueryIsNotConstructed)
//	}
//
// A zero-value ConstructorGuard always fails validation.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is
// nil) if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
