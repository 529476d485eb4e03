package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into out.
func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

var errBadRequest = errors.New("malformed request")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err and writes the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, apiErr := MapError(err)
	if errors.Is(err, errBadRequest) {
		status, apiErr = http.StatusBadRequest, &APIError{Code: "INVALID_REQUEST", Message: err.Error()}
	}

	switch {
	case status >= http.StatusInternalServerError && !apiErr.Retryable:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	case apiErr.Retryable:
		logger.WarnContext(r.Context(), "request failed, retryable", "method", r.Method, "path", r.URL.Path, "error", err)
	default:
		logger.InfoContext(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "code", apiErr.Code)
	}

	if apiErr.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, errorBody{Error: apiErr})
}
