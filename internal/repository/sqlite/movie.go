package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/model"
	"github.com/numenot/myflix-api/internal/repository"
)

// compile-time check that *DB implements repository.MovieRepository
var _ repository.MovieRepository = (*DB)(nil)

const movieColumns = `id, title, description, genre_name, genre_description,
	director_name, director_bio, actors, image_path, featured`

// List returns every movie in the catalog, ordered by title.
func (db *DB) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing movies: %w", err)
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing movies: %w", err)
	}

	return movies, nil
}

// GetByTitle retrieves a movie by exact title, or apperror.ErrNotFound.
func (db *DB) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE title = ?`, title)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("movie", title)
		}
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a movie by its internal ID, or apperror.ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("movie", id)
		}
		return nil, err
	}
	return m, nil
}

// GetGenre returns the genre record carried by any movie whose genre name
// matches. Genre data is denormalized onto movies, so one matching row is
// enough.
func (db *DB) GetGenre(ctx context.Context, name string) (*model.Genre, error) {
	var g model.Genre
	err := db.conn.QueryRowContext(ctx,
		`SELECT genre_name, genre_description FROM movies WHERE genre_name = ? LIMIT 1`,
		name,
	).Scan(&g.Name, &g.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("genre", name)
		}
		return nil, fmt.Errorf("sqlite: getting genre %s: %w", name, err)
	}
	return &g, nil
}

// GetDirector returns the director record carried by any movie whose
// director name matches.
func (db *DB) GetDirector(ctx context.Context, name string) (*model.Director, error) {
	var d model.Director
	err := db.conn.QueryRowContext(ctx,
		`SELECT director_name, director_bio FROM movies WHERE director_name = ? LIMIT 1`,
		name,
	).Scan(&d.Name, &d.Bio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("director", name)
		}
		return nil, fmt.Errorf("sqlite: getting director %s: %w", name, err)
	}
	return &d, nil
}

// Seed loads catalog entries, skipping titles that already exist so the
// seed file can be applied on every startup. Movies without an ID get one
// assigned here.
func (db *DB) Seed(ctx context.Context, movies []model.Movie) error {
	for i := range movies {
		m := &movies[i]
		if m.ID == "" {
			m.ID = xid.New().String()
		}

		actors, err := json.Marshal(m.Actors)
		if err != nil {
			return fmt.Errorf("sqlite: encoding actors for %s: %w", m.Title, err)
		}

		_, err = db.conn.ExecContext(ctx,
			`INSERT OR IGNORE INTO movies
			 (id, title, description, genre_name, genre_description,
			  director_name, director_bio, actors, image_path, featured)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID,
			m.Title,
			m.Description,
			m.Genre.Name,
			m.Genre.Description,
			m.Director.Name,
			m.Director.Bio,
			string(actors),
			m.ImagePath,
			m.Featured,
		)
		if err != nil {
			return fmt.Errorf("sqlite: seeding movie %s: %w", m.Title, err)
		}
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var m model.Movie
	var actors string

	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Genre.Name,
		&m.Genre.Description,
		&m.Director.Name,
		&m.Director.Bio,
		&actors,
		&m.ImagePath,
		&m.Featured,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scanning movie: %w", err)
	}

	if err := json.Unmarshal([]byte(actors), &m.Actors); err != nil {
		return nil, fmt.Errorf("sqlite: decoding actors for %s: %w", m.Title, err)
	}

	return &m, nil
}
