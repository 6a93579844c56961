// Package handler contains the HTTP layer: request parsing, response
// writing, and the translation of domain errors to status codes. Handlers
// never touch the store directly — everything goes through a service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/numenot/myflix-api/internal/service"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// loginRequest is the POST /login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns the user plus a freshly
// issued token.
//
// HTTP: POST /login (public)
// Response: 200 {"user": {...}, "token": "<jwt>"} on success,
// 400 with a generic message on any credential failure.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
