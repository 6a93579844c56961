package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/model"
	"github.com/numenot/myflix-api/internal/repository"
)

// MovieService serves catalog reads. The catalog is read-only from the
// API's perspective; the only write path is the startup seed.
type MovieService struct {
	movies repository.MovieRepository
	logger *slog.Logger
}

// NewMovieService creates a MovieService.
func NewMovieService(movies repository.MovieRepository, logger *slog.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		logger: logger,
	}
}

// List returns the full catalog.
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/movie: listing movies: %w", err)
	}
	return movies, nil
}

// GetByTitle returns the movie with the given exact title.
func (s *MovieService) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	movie, err := s.movies.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/movie: getting movie %q: %w", title, err)
	}
	return movie, nil
}

// GetGenre returns the genre record with the given name.
func (s *MovieService) GetGenre(ctx context.Context, name string) (*model.Genre, error) {
	genre, err := s.movies.GetGenre(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/movie: getting genre %q: %w", name, err)
	}
	return genre, nil
}

// GetDirector returns the director record with the given name.
func (s *MovieService) GetDirector(ctx context.Context, name string) (*model.Director, error) {
	director, err := s.movies.GetDirector(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/movie: getting director %q: %w", name, err)
	}
	return director, nil
}

// Seed loads catalog entries at startup. Existing titles are left alone,
// so re-running with the same seed file is harmless.
func (s *MovieService) Seed(ctx context.Context, movies []model.Movie) error {
	if err := s.movies.Seed(ctx, movies); err != nil {
		return fmt.Errorf("service/movie: seeding catalog: %w", err)
	}
	s.logger.Info("catalog seeded", slog.Int("movies", len(movies)))
	return nil
}
