// Package cache keeps the last fetched film collection per backend in SQLite,
// so the TUI has something to show while the backend is unreachable.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/five82/flimmer/internal/films"
)

const schema = `
CREATE TABLE IF NOT EXISTS film_snapshots (
	backend   TEXT PRIMARY KEY,
	cached_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cached_films (
	backend  TEXT NOT NULL,
	position INTEGER NOT NULL,
	film_id  INTEGER NOT NULL DEFAULT 0,
	title    TEXT NOT NULL,
	year     TEXT NOT NULL DEFAULT '',
	watched  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (backend, position)
);
`

// SQLite stores film collections keyed by backend base URL.
type SQLite struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	// A single connection keeps :memory: databases consistent across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &SQLite{db: db, sq: sq.StatementBuilder}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveFilms replaces the cached collection for key.
func (s *SQLite) SaveFilms(ctx context.Context, key string, items []films.Film) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sqlStr, args, err := s.sq.Delete("cached_films").Where(sq.Eq{"backend": key}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("clearing cached films: %w", err)
	}

	if len(items) > 0 {
		insert := s.sq.Insert("cached_films").
			Columns("backend", "position", "film_id", "title", "year", "watched")
		for i, f := range items {
			insert = insert.Values(key, i, f.ID, f.Title, string(f.Year), f.Watched)
		}
		sqlStr, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("inserting cached films: %w", err)
		}
	}

	sqlStr, args, err = s.sq.Insert("film_snapshots").
		Columns("backend", "cached_at").
		Values(key, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(backend) DO UPDATE SET cached_at=excluded.cached_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building snapshot upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("recording snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	return nil
}

// LoadFilms returns the cached collection for key and when it was stored.
// A zero time means nothing is cached for key.
func (s *SQLite) LoadFilms(ctx context.Context, key string) ([]films.Film, time.Time, error) {
	sqlStr, args, err := s.sq.Select("cached_at").
		From("film_snapshots").
		Where(sq.Eq{"backend": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("building snapshot query: %w", err)
	}
	var created string
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&created); err != nil {
		if err == sql.ErrNoRows {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("querying snapshot: %w", err)
	}
	cachedAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parsing cached at: %w", err)
	}

	sqlStr, args, err = s.sq.Select("film_id", "title", "year", "watched").
		From("cached_films").
		Where(sq.Eq{"backend": key}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("building films query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying cached films: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []films.Film{}
	for rows.Next() {
		var (
			f    films.Film
			year string
		)
		if err := rows.Scan(&f.ID, &f.Title, &year, &f.Watched); err != nil {
			return nil, time.Time{}, fmt.Errorf("scanning cached film: %w", err)
		}
		f.Year = films.Year(year)
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterating cached films: %w", err)
	}
	return items, cachedAt, nil
}
