package access

import "errors"

var (
	// ErrForbidden indicates the actor lacks the role required for the action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRole indicates an unknown role name.
	ErrInvalidRole = errors.New("invalid role")
)
