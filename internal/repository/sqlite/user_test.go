package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/model"
)

// newTestDB opens an in-memory database, migrated and ready. Each test
// gets its own — nothing leaks between tests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createAlice(t *testing.T, db *DB) *model.User {
	t.Helper()
	user := &model.User{
		Username:     "alice1",
		PasswordHash: "$2a$04$fakehashfortestingonlyfakehashfortestingonly",
		Email:        "alice@example.com",
	}
	require.NoError(t, db.Create(context.Background(), user))
	return user
}

func seedMovie(t *testing.T, db *DB, id, title string) {
	t.Helper()
	require.NoError(t, db.Seed(context.Background(), []model.Movie{
		{ID: id, Title: title},
	}))
}

func TestCreateAndGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createAlice(t, db)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := db.GetByUsername(context.Background(), "alice1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice1", got.Username)
	assert.Equal(t, created.PasswordHash, got.PasswordHash)
	assert.Empty(t, got.Favorites)
	assert.Nil(t, got.Birthday)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createAlice(t, db)

	err := db.Create(context.Background(), &model.User{
		Username:     "alice1",
		PasswordHash: "other-hash",
		Email:        "other@example.com",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestGetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByUsername(context.Background(), "nobody1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdate_ChangesFields(t *testing.T) {
	db := newTestDB(t)
	user := createAlice(t, db)

	user.Email = "new@example.com"
	user.PasswordHash = "new-hash"
	require.NoError(t, db.Update(context.Background(), user))

	got, err := db.GetByUsername(context.Background(), "alice1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestUpdate_RenameKeepsFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createAlice(t, db)
	seedMovie(t, db, "mov-1", "Halloween")
	require.NoError(t, db.AddFavorite(ctx, "alice1", "mov-1"))

	user.Username = "alice2"
	require.NoError(t, db.Update(ctx, user))

	got, err := db.GetByUsername(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, []string{"mov-1"}, got.Favorites)

	_, err = db.GetByUsername(ctx, "alice1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDelete_CascadesFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createAlice(t, db)
	seedMovie(t, db, "mov-1", "Halloween")
	require.NoError(t, db.AddFavorite(ctx, "alice1", "mov-1"))

	require.NoError(t, db.Delete(ctx, "alice1"))

	_, err := db.GetByUsername(ctx, "alice1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// The favorites rows must be gone too, not orphaned.
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&count))
	assert.Zero(t, count)
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "nobody1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// FAVORITES TESTS
// =========================================================================

func TestAddFavorite_IdempotentAndOrdered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createAlice(t, db)
	seedMovie(t, db, "mov-1", "Halloween")
	seedMovie(t, db, "mov-2", "Alien")

	require.NoError(t, db.AddFavorite(ctx, "alice1", "mov-2"))
	require.NoError(t, db.AddFavorite(ctx, "alice1", "mov-1"))
	// Repeat add is a no-op and must not change the order either.
	require.NoError(t, db.AddFavorite(ctx, "alice1", "mov-2"))

	favorites, err := db.ListFavorites(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mov-2", "mov-1"}, favorites)
}

func TestRemoveFavorite_NonMemberNoOp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createAlice(t, db)
	seedMovie(t, db, "mov-1", "Halloween")

	assert.NoError(t, db.RemoveFavorite(ctx, "alice1", "mov-1"))
}

func TestAddRemove_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createAlice(t, db)
	seedMovie(t, db, "mov-1", "Halloween")

	before, err := db.ListFavorites(ctx, "alice1")
	require.NoError(t, err)

	require.NoError(t, db.AddFavorite(ctx, "alice1", "mov-1"))
	require.NoError(t, db.RemoveFavorite(ctx, "alice1", "mov-1"))

	after, err := db.ListFavorites(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAddFavorite_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	seedMovie(t, db, "mov-1", "Halloween")

	err := db.AddFavorite(context.Background(), "nobody1", "mov-1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// TestAddFavorite_ConcurrentSamePair exercises the atomicity contract:
// racing adds of the same user/movie pair all succeed and leave exactly
// one row.
func TestAddFavorite_ConcurrentSamePair(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createAlice(t, db)
	seedMovie(t, db, "mov-1", "Halloween")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.AddFavorite(ctx, "alice1", "mov-1")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	favorites, err := db.ListFavorites(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mov-1"}, favorites)
}
