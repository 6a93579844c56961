// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, no C
// toolchain, cross-compiles anywhere Go does. The blank import below
// registers it with database/sql under the driver name "sqlite".
//
// The database is opened in WAL mode so reads proceed concurrently with a
// write, which matters for a request-parallel HTTP server sharing one pool.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and provides the repository methods. It
// implements both repository.UserRepository and repository.MovieRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every pool connection to ":memory:" would get its own empty
	// database, so in-memory mode must run on a single connection.
	if strings.Contains(dbPath, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	// Surface a bad path or permission problem now instead of on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. The favorites table
	// relies on ON DELETE CASCADE, so they must be on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL and releasing the
// file lock. Callers should defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every startup.
//
// favorites is the user→movie relation. The composite primary key makes
// the favorites set membership-unique at the storage level; ordering by
// rowid recovers insertion order for display.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email         TEXT NOT NULL,
			birthday      DATETIME,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS movies (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL UNIQUE,
			description       TEXT NOT NULL DEFAULT '',
			genre_name        TEXT NOT NULL DEFAULT '',
			genre_description TEXT NOT NULL DEFAULT '',
			director_name     TEXT NOT NULL DEFAULT '',
			director_bio      TEXT NOT NULL DEFAULT '',
			actors            TEXT NOT NULL DEFAULT '[]',
			image_path        TEXT NOT NULL DEFAULT '',
			featured          INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_movies_genre_name ON movies(genre_name);
		CREATE INDEX IF NOT EXISTS idx_movies_director_name ON movies(director_name);
	`)
	if err != nil {
		return fmt.Errorf("creating movies table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			user_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movie_id TEXT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, movie_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}
