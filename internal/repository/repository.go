// Package repository declares the storage interfaces consumed by the
// service layer. Services depend on these interfaces, never on the
// concrete sqlite implementation, so tests can substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/numenot/myflix-api/internal/model"
)

// UserRepository is the identity store. Favorites live here too — a
// favorites mutation touches exactly one user's relation rows, and the
// implementation must apply each mutation atomically.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, username string) error

	// AddFavorite is idempotent: adding a movie already in the set is a
	// no-op. RemoveFavorite of a non-member is likewise a no-op.
	AddFavorite(ctx context.Context, username, movieID string) error
	RemoveFavorite(ctx context.Context, username, movieID string) error
	// ListFavorites returns movie IDs in insertion order.
	ListFavorites(ctx context.Context, username string) ([]string, error)
}

// MovieRepository is the read-only catalog, plus the one-time seed hook
// used at startup.
type MovieRepository interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByTitle(ctx context.Context, title string) (*model.Movie, error)
	GetByID(ctx context.Context, id string) (*model.Movie, error)
	GetGenre(ctx context.Context, name string) (*model.Genre, error)
	GetDirector(ctx context.Context, name string) (*model.Director, error)
	Seed(ctx context.Context, movies []model.Movie) error
}
