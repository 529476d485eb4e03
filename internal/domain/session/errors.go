package session

import "errors"

var (
	// ErrSessionNotFound indicates an unknown, revoked or expired token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
