package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyReconciled indicates that an order is already covered by a
// settlement and must not be settled again.
var ErrAlreadyReconciled = errors.New("already reconciled")

// ErrLockBusy indicates that a fail-fast lock could not be acquired and the
// caller should retry.
var ErrLockBusy = errors.New("lock busy")

// Code maps an error to the stable code exposed on the admin surface.
// Unrecognized errors map to "internal" so details never leak to callers.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalid):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyReconciled):
		return "already_reconciled"
	case errors.Is(err, ErrLockBusy):
		return "lock_busy"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
