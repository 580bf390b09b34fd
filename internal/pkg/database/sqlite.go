package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchemaVersion = 1

// SQLiteDB is the embedded backend used for local deployments and tests
type SQLiteDB struct {
	*sql.DB
}

// NewSQLiteDB opens (or creates) the database at path and runs migrations
func NewSQLiteDB(ctx context.Context, path string) (*SQLiteDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLiteDB{DB: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewSQLiteMemory creates an in-memory database for testing
func NewSQLiteMemory(ctx context.Context) (*SQLiteDB, error) {
	return NewSQLiteDB(ctx, ":memory:")
}

func (s *SQLiteDB) migrate(ctx context.Context) error {
	var version int
	if err := s.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= sqliteSchemaVersion {
		return nil
	}

	if version < 1 {
		if _, err := s.ExecContext(ctx, sqliteSchemaV1); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}

	_, err := s.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion))
	return err
}

const sqliteSchemaV1 = `
CREATE TABLE IF NOT EXISTS employees (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	gender        TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'Active',
	department    TEXT NOT NULL,
	project       TEXT NOT NULL DEFAULT '',
	profile_image TEXT,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department);

CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	department TEXT NOT NULL,
	employees  TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id   TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS shift_assignments (
	project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	month_year  TEXT NOT NULL,
	assignments TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (project_id, month_year)
);

CREATE INDEX IF NOT EXISTS idx_shift_assignments_month ON shift_assignments(month_year);
`
