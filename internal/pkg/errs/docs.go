// Package errs provides standardized error types for the service-order core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid (validation errors)
//   - ObjectNotFoundError: For when an object cannot be found
//   - InvalidTransitionError: For a status change that is not an edge of the status graph
//   - ConcurrentModificationError: For a lost optimistic race on an order's status
//   - RetentionPolicyError: For a history purge requested inside the protected window
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Callers classify errors with errors.Is against the sentinels. Only
// ErrConcurrentModification is meant to be retried.
package errs
