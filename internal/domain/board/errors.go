package board

import "errors"

var (
	// ErrColumnNotFound indicates the column doesn't exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnNotEmpty indicates a delete of a column that still has tasks.
	ErrColumnNotEmpty = errors.New("column is not empty")
	// ErrInvalidInput indicates invalid column input.
	ErrInvalidInput = errors.New("invalid column input")
)
