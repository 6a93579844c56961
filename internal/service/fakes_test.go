package service

// In-memory fakes for the repository interfaces. Hand-written fakes (not a
// mock framework) keep these tests readable: what each fake does is right
// here in front of you.

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/xid"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/auth"
	"github.com/numenot/myflix-api/internal/model"
)

type fakeUserRepo struct {
	users     map[string]*model.User // keyed by username
	favorites map[string][]string    // username → movie IDs, insertion order

	// set to simulate a store failure
	err error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[string]*model.User),
		favorites: make(map[string][]string),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Username]; ok {
		return apperror.Conflict("username " + user.Username + " already exists")
	}
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	copied := *u
	copied.Favorites = append([]string{}, f.favorites[username]...)
	return &copied, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	for username, existing := range f.users {
		if existing.ID == user.ID {
			if username != user.Username {
				if _, taken := f.users[user.Username]; taken {
					return apperror.Conflict("username " + user.Username + " already exists")
				}
				delete(f.users, username)
				f.favorites[user.Username] = f.favorites[username]
				delete(f.favorites, username)
			}
			user.UpdatedAt = time.Now()
			copied := *user
			f.users[user.Username] = &copied
			return nil
		}
	}
	return apperror.NotFound("user", user.Username)
}

func (f *fakeUserRepo) Delete(ctx context.Context, username string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[username]; !ok {
		return apperror.NotFound("user", username)
	}
	delete(f.users, username)
	delete(f.favorites, username)
	return nil
}

func (f *fakeUserRepo) AddFavorite(ctx context.Context, username, movieID string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[username]; !ok {
		return apperror.NotFound("user", username)
	}
	for _, id := range f.favorites[username] {
		if id == movieID {
			return nil // already a member — idempotent
		}
	}
	f.favorites[username] = append(f.favorites[username], movieID)
	return nil
}

func (f *fakeUserRepo) RemoveFavorite(ctx context.Context, username, movieID string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[username]; !ok {
		return apperror.NotFound("user", username)
	}
	kept := f.favorites[username][:0]
	for _, id := range f.favorites[username] {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	f.favorites[username] = kept
	return nil
}

func (f *fakeUserRepo) ListFavorites(ctx context.Context, username string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.users[username]; !ok {
		return nil, apperror.NotFound("user", username)
	}
	return append([]string{}, f.favorites[username]...), nil
}

type fakeMovieRepo struct {
	movies map[string]*model.Movie // keyed by ID
}

func newFakeMovieRepo(movies ...model.Movie) *fakeMovieRepo {
	f := &fakeMovieRepo{movies: make(map[string]*model.Movie)}
	for i := range movies {
		f.movies[movies[i].ID] = &movies[i]
	}
	return f
}

func (f *fakeMovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	out := []model.Movie{}
	for _, m := range f.movies {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMovieRepo) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	for _, m := range f.movies {
		if m.Title == title {
			copied := *m
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("movie", title)
}

func (f *fakeMovieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, apperror.NotFound("movie", id)
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMovieRepo) GetGenre(ctx context.Context, name string) (*model.Genre, error) {
	for _, m := range f.movies {
		if m.Genre.Name == name {
			g := m.Genre
			return &g, nil
		}
	}
	return nil, apperror.NotFound("genre", name)
}

func (f *fakeMovieRepo) GetDirector(ctx context.Context, name string) (*model.Director, error) {
	for _, m := range f.movies {
		if m.Director.Name == name {
			d := m.Director
			return &d, nil
		}
	}
	return nil, apperror.NotFound("director", name)
}

func (f *fakeMovieRepo) Seed(ctx context.Context, movies []model.Movie) error {
	for i := range movies {
		if movies[i].ID == "" {
			movies[i].ID = xid.New().String()
		}
		copied := movies[i]
		f.movies[copied.ID] = &copied
	}
	return nil
}

// userWith builds a minimal valid user record for seeding fakes.
func userWith(username, hash string) model.User {
	return model.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		Favorites:    []string{},
	}
}

// testLogger discards everything below Error so test output stays quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testPasswords uses the bcrypt minimum cost for speed.
func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceWithCost(4)
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}
