package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/domain/board"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/domain/team"
	"github.com/rpggio/planboard/internal/domain/user"
	"github.com/rpggio/planboard/internal/ordering"
	"github.com/rpggio/planboard/internal/repository"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is the error body returned to clients.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	// Retryable errors are answered with a Retry-After header.
	Retryable bool `json:"retryable"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type errorBody struct {
	Error *APIError `json:"error"`
}

// MapError maps domain errors to an HTTP status and API error.
func MapError(err error) (int, *APIError) {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, session.ErrSessionNotFound):
		return http.StatusUnauthorized, &APIError{Code: "UNAUTHENTICATED", Message: "authentication required", RecoveryHint: "Log in and send the token as a bearer token"}
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, &APIError{Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}

	case errors.Is(err, ordering.ErrPermissionDenied),
		errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden, &APIError{Code: "FORBIDDEN", Message: "you do not have access to this resource", RecoveryHint: "Ask a project admin for a role"}

	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound, &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, task.ErrColumnNotFound),
		errors.Is(err, board.ErrColumnNotFound):
		return http.StatusNotFound, &APIError{Code: "COLUMN_NOT_FOUND", Message: "column not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, team.ErrTeamNotFound):
		return http.StatusNotFound, &APIError{Code: "TEAM_NOT_FOUND", Message: "team not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, project.ErrMemberNotFound),
		errors.Is(err, team.ErrMemberNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, &APIError{Code: "MEMBER_NOT_FOUND", Message: "user or membership not found"}
	case errors.Is(err, ordering.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: "not found"}

	case errors.Is(err, ordering.ErrInvalidOrderSet):
		return http.StatusConflict, &APIError{Code: "INVALID_ORDER_SET", Message: "order must list every item in the group exactly once", RecoveryHint: "Fetch the current order and retry"}
	case errors.Is(err, ordering.ErrConflict),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, &APIError{Code: "CONFLICT", Message: "modified concurrently", RecoveryHint: "Retry the request", Retryable: true}
	case errors.Is(err, ordering.ErrTimeout):
		return http.StatusServiceUnavailable, &APIError{Code: "TIMEOUT", Message: "the operation timed out", RecoveryHint: "Retry the request", Retryable: true}
	case errors.Is(err, board.ErrColumnNotEmpty):
		return http.StatusConflict, &APIError{Code: "COLUMN_NOT_EMPTY", Message: "column still has tasks", RecoveryHint: "Move or delete its tasks first"}
	case errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict, &APIError{Code: "EMAIL_TAKEN", Message: "email already registered", RecoveryHint: "Log in instead"}

	case errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, board.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, team.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, access.ErrInvalidRole),
		errors.Is(err, repository.ErrInvalidInput):
		return http.StatusBadRequest, &APIError{Code: "INVALID_INPUT", Message: err.Error()}

	case errors.Is(err, ordering.ErrInvariantViolation):
		return http.StatusInternalServerError, &APIError{Code: "INVARIANT_VIOLATION", Message: "position invariant violated"}
	default:
		return http.StatusInternalServerError, &APIError{Code: "INTERNAL", Message: "internal error"}
	}
}
