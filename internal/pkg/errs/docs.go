// Package errs provides standardized error types for the parcel delivery
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConflictError: For when a mutation loses an atomic check-then-set race
//   - InvalidTransitionError: For illegal parcel status changes
//   - Other specialized error types for specific validation failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The sentinels map directly onto the application's failure taxonomy: not
// found, invalid transition, conflict, and validation failure. Callers
// classify outcomes with errors.Is against the sentinels rather than by
// inspecting message text.
package errs
