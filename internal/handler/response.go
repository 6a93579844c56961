package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/numenot/myflix-api/internal/apperror"
)

// ErrorResponse is the standard error shape returned by every endpoint.
// Violations is only present on validation failures (422).
type ErrorResponse struct {
	Error      string               `json:"error"`
	Message    string               `json:"message"`
	Violations []apperror.Violation `json:"violations,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must be written
// before the body; once Encode writes, the headers are on the wire.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into the HTTP taxonomy. This is
// the only place status codes are assigned; the service layer stays
// HTTP-agnostic.
//
// Mapping notes:
//   - validation → 422 with the per-field violation list
//   - invalid credentials → generic 400, same body for unknown user and
//     wrong password
//   - duplicate username (conflict) → 400, matching the API's published
//     contract
//   - anything unrecognized → 500 with no internal detail; the raw error
//     is logged server-side only
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Error:      errorType,
			Message:    appErr.Message,
			Violations: appErr.Violations,
		})
		return
	}

	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}
