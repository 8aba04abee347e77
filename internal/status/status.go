// Package status defines the workflow error kinds shared by the feature
// packages. Callers classify failures with errors.Is and map each kind to a
// transport response; kinds are never conflated.
package status

import "errors"

var (
	// ErrNotFound signals a missing user, event, registration or
	// attendance record for the given identifier.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a duplicate registration, duplicate check-in, or
	// duplicate email/student id.
	ErrConflict = errors.New("conflict")

	// ErrCapacityExceeded signals a registration attempt against an event
	// that is already at capacity.
	ErrCapacityExceeded = errors.New("event at full capacity")

	// ErrPrecondition signals check-in without a registration or check-out
	// without a check-in.
	ErrPrecondition = errors.New("precondition failed")

	// ErrInvalidFormat signals a malformed check-in token payload.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnauthorized signals a credential mismatch, a deactivated
	// account, or an expired capability token.
	ErrUnauthorized = errors.New("unauthorized")
)
