package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when storage is contended (busy or locked) and the
	// operation may be retried
	ErrConflict = errors.New("conflict: storage busy")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrConstraintViolation is returned when a unique constraint fails
	ErrConstraintViolation = errors.New("unique constraint violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
