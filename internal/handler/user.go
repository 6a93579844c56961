package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/auth"
	"github.com/numenot/myflix-api/internal/service"
)

// UserHandler serves registration, profile CRUD and the favorites routes.
//
// Every user-scoped route ({username} in the path) is owner-only: the
// authenticated subject must match the path segment. The check lives in
// requireOwner, applied before any store access, so one authenticated
// user can never read or mutate another user's record.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleRegister creates a new account.
//
// HTTP: POST /users (public)
// Response: 201 with the new record, 422 with per-field violations on
// invalid input, 400 if the username is taken.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid registration JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGet returns the owner's profile, favorites included.
//
// HTTP: GET /users/{username} (protected, owner-only)
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate replaces the owner's profile.
//
// HTTP: PUT /users/{username} (protected, owner-only)
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var in service.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid JSON body",
		})
		return
	}

	user, err := h.users.Update(r.Context(), username, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes the owner's account.
//
// HTTP: DELETE /users/{username} (protected, owner-only)
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": username + " was deleted"})
}

// HandleListFavorites returns the owner's favorites resolved to full
// movie records, in the order they were added.
//
// HTTP: GET /users/{username}/movies (protected, owner-only)
func (h *UserHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	movies, err := h.users.ListFavorites(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

// HandleAddFavorite adds a movie to the owner's favorites. Repeating the
// call is a no-op.
//
// HTTP: POST /users/{username}/movies/{movieID} (protected, owner-only)
func (h *UserHandler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	movieID := chi.URLParam(r, "movieID")
	user, err := h.users.AddFavorite(r.Context(), username, movieID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleRemoveFavorite removes a movie from the owner's favorites.
// Removing a movie that was never added still answers 200.
//
// HTTP: DELETE /users/{username}/movies/{movieID} (protected, owner-only)
func (h *UserHandler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	movieID := chi.URLParam(r, "movieID")
	user, err := h.users.RemoveFavorite(r.Context(), username, movieID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// requireOwner extracts the {username} path parameter and checks it
// against the authenticated subject from the token. On mismatch it writes
// 403 and returns ok=false. The subject always exists here because these
// routes sit behind RequireAuth.
func (h *UserHandler) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := chi.URLParam(r, "username")

	subject, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return "", false
	}

	if subject != username {
		h.logger.Warn("ownership check failed",
			slog.String("subject", subject),
			slog.String("path", username),
		)
		writeError(w, apperror.Forbidden("you may only manage your own account"))
		return "", false
	}

	return username, true
}
