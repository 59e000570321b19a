// Package kernel provides the shared domain primitives of the service-order core.
//
// The package includes:
//   - UUID: a value object for order, operator and ledger-entry identifiers
//
// The zero value of every primitive is invalid and fails Validate, so values
// read from persistence or transport are checked before they reach the domain.
package kernel
