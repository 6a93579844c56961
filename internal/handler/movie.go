package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/numenot/myflix-api/internal/service"
)

// MovieHandler serves the read-only catalog routes. All of them sit
// behind RequireAuth but carry no ownership check — the catalog is the
// same for every authenticated user.
type MovieHandler struct {
	movies *service.MovieService
	logger *slog.Logger
}

// NewMovieHandler creates a MovieHandler.
func NewMovieHandler(movies *service.MovieService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, logger: logger}
}

// HandleList returns all movies.
//
// HTTP: GET /movies (protected)
func (h *MovieHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

// HandleGetByTitle returns a single movie by exact title.
//
// HTTP: GET /movies/{title} (protected)
func (h *MovieHandler) HandleGetByTitle(w http.ResponseWriter, r *http.Request) {
	// chi matches against the decoded request path, so the parameter
	// arrives already percent-decoded — no further unescaping.
	title := chi.URLParam(r, "title")

	movie, err := h.movies.GetByTitle(r.Context(), title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// HandleGetGenre returns a genre's name and description.
//
// HTTP: GET /genres/{name} (protected)
func (h *MovieHandler) HandleGetGenre(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	genre, err := h.movies.GetGenre(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, genre)
}

// HandleGetDirector returns a director's name and bio.
//
// HTTP: GET /directors/{name} (protected)
func (h *MovieHandler) HandleGetDirector(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	director, err := h.movies.GetDirector(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, director)
}
