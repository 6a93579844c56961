package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/model"
	"github.com/numenot/myflix-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user. The caller supplies Username, PasswordHash,
// Email and optionally Birthday; ID and timestamps are filled in here.
// A duplicate username surfaces as apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, birthday, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Birthday,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("username %s already exists", user.Username))
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user by exact username, favorites included.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email, birthday, created_at, updated_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.Birthday,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}

	favorites, err := db.ListFavorites(ctx, username)
	if err != nil {
		return nil, err
	}
	u.Favorites = favorites

	return &u, nil
}

// Update rewrites the mutable profile fields of the row identified by
// user.ID. The username itself may change, so the lookup key is the
// internal ID, not the (possibly new) username.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, password_hash = ?, email = ?, birthday = ?, updated_at = ?
		 WHERE id = ?`,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Birthday,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("username %s already exists", user.Username))
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("user", user.Username)
	}

	return nil
}

// Delete removes a user. Favorites rows go with it via ON DELETE CASCADE.
// Returns apperror.ErrNotFound if the username does not exist.
func (db *DB) Delete(ctx context.Context, username string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", username, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", username, err)
	}
	if n == 0 {
		return apperror.NotFound("user", username)
	}

	return nil
}

// AddFavorite adds movieID to the user's favorites set.
//
// INSERT OR IGNORE against the (user_id, movie_id) primary key makes the
// operation idempotent: a repeat add, or two concurrent adds of the same
// pair, leave exactly one row. The single statement is atomic — no
// read-modify-write window.
func (db *DB) AddFavorite(ctx context.Context, username, movieID string) error {
	userID, err := db.userID(ctx, username)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, movie_id) VALUES (?, ?)`,
		userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding favorite %s for %s: %w", movieID, username, err)
	}

	return nil
}

// RemoveFavorite removes movieID from the user's favorites set. Removing
// a movie that is not in the set is a no-op, not an error.
func (db *DB) RemoveFavorite(ctx context.Context, username, movieID string) error {
	userID, err := db.userID(ctx, username)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND movie_id = ?`,
		userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite %s for %s: %w", movieID, username, err)
	}

	return nil
}

// ListFavorites returns the user's favorite movie IDs in insertion order
// (rowid order — rows are only ever appended or deleted, never updated).
func (db *DB) ListFavorites(ctx context.Context, username string) ([]string, error) {
	userID, err := db.userID(ctx, username)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id FROM favorites WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for %s: %w", username, err)
	}
	defer rows.Close()

	favorites := []string{}
	for rows.Next() {
		var movieID string
		if err := rows.Scan(&movieID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite for %s: %w", username, err)
		}
		favorites = append(favorites, movieID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for %s: %w", username, err)
	}

	return favorites, nil
}

// userID resolves a username to its internal ID, or apperror.ErrNotFound.
func (db *DB) userID(ctx context.Context, username string) (string, error) {
	var id string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, username,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperror.NotFound("user", username)
		}
		return "", fmt.Errorf("sqlite: looking up user %s: %w", username, err)
	}
	return id, nil
}

// isUniqueViolation detects a UNIQUE constraint failure without importing
// the driver's error types. modernc.org/sqlite reports these as
// "constraint failed: UNIQUE constraint failed: ..." — string matching is
// crude but keeps the driver dependency confined to the blank import.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
