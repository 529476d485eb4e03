package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/planboard/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// translateError maps driver errors onto repository sentinels, keeping the
// original message.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrConstraintViolation),
		errors.Is(err, repository.ErrForeignKeyViolation):
		return err
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", repository.ErrConstraintViolation, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", repository.ErrForeignKeyViolation, err)
	case isBusy(err):
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	default:
		return err
	}
}
