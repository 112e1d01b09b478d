package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	name       TEXT PRIMARY KEY,
	version    TEXT NOT NULL,
	document   BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore keeps a library of projects in a single SQLite file. Each row
// holds the same JSON document the FileStore writes.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the project library at path.
func NewSQLiteStore(ctx context.Context, path string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{
		db:  db,
		log: log.With().Str("component", "SQLiteStore").Logger(),
	}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the named project.
func (s *SQLiteStore) Save(ctx context.Context, name string, p Project) error {
	if err := checkName(name); err != nil {
		return err
	}
	now := time.Now().UTC()
	if p.Metadata == nil {
		p.Metadata = &Metadata{}
	}
	p.Metadata.LastModified = now.Format(time.RFC3339)

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	version := p.Version
	if version == "" {
		version = CurrentVersion
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, version, document, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET version = excluded.version, document = excluded.document, updated_at = excluded.updated_at`,
		name, version, buf.Bytes(), now)
	if err != nil {
		return fmt.Errorf("failed to save project %q: %w", name, err)
	}
	s.log.Debug().Str("project", name).Msg("Saved project")
	return nil
}

// Load reads and adapts the named project.
func (s *SQLiteStore) Load(ctx context.Context, name string) (Project, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM projects WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Project{}, fmt.Errorf("failed to query project %q: %w", name, err)
	}
	p, err := Decode(bytes.NewReader(doc))
	if err != nil {
		return Project{}, fmt.Errorf("failed to load project %q: %w", name, err)
	}
	return p, nil
}

// List returns the stored project names in alphabetical order.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan project name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the named project.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete project %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}
