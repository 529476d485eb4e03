package ordering

import "errors"

var (
	// ErrPermissionDenied indicates the actor may not mutate the group.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidOrderSet indicates the submitted order does not match the
	// group's current membership exactly.
	ErrInvalidOrderSet = errors.New("invalid order set")
	// ErrNotFound indicates the record or group does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTimeout indicates the transaction did not complete in time. Retryable.
	ErrTimeout = errors.New("ordering transaction timed out")
	// ErrConflict indicates contention with a concurrent change. Retryable.
	ErrConflict = errors.New("concurrent modification")
	// ErrInvariantViolation indicates storage rejected a position assignment.
	// It is a bug, not a user error.
	ErrInvariantViolation = errors.New("position invariant violated")
)
