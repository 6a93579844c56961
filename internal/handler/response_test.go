package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numenot/myflix-api/internal/apperror"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed(apperror.Violation{Field: "username", Message: "too short"}), http.StatusUnprocessableEntity, "validation_error"},
		{"invalid credentials", apperror.InvalidCredentials(), http.StatusBadRequest, "invalid_credentials"},
		{"conflict", apperror.Conflict("username taken"), http.StatusBadRequest, "conflict"},
		{"unauthorized", apperror.Unauthorized("no token"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperror.Forbidden("not yours"), http.StatusForbidden, "forbidden"},
		{"not found", apperror.NotFound("movie", "x"), http.StatusNotFound, "not_found"},
		{"wrapped", fmt.Errorf("service: %w", apperror.NotFound("user", "y")), http.StatusNotFound, "not_found"},
		{"unknown", errors.New("sql: connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body.Error)
		})
	}
}

func TestWriteError_NeverLeaksInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.5",
		"raw store errors must not reach the client")
}

func TestWriteError_ValidationIncludesViolations(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apperror.ValidationFailed(
		apperror.Violation{Field: "username", Message: "too short"},
		apperror.Violation{Field: "email", Message: "not an address"},
	))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Violations, 2)
	assert.Equal(t, "username", body.Violations[0].Field)
}
