package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	blobTable  = "state_blobs"
	awardTable = "award_events"
)

// Store persists blobs and the award journal in a SQL database. Queries
// are built with ent's dialect builder so the same code serves SQLite and
// Postgres.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
	seq     *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return newStore(db, dialect.SQLite)
}

// OpenPostgres creates a new Store connected to the Postgres server at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newStore(db, dialect.Postgres)
}

func newStore(db *sql.DB, d string) (*Store, error) {
	if err := migrate(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		drv:     entsql.OpenDB(d, db),
		dialect: d,
		seq:     seq,
	}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect name.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// migrate creates the tables if they do not exist.
func migrate(db *sql.DB, d string) error {
	for _, stmt := range schemaStatements(d) {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// schemaStatements returns the DDL for dialect d. Column types are kept
// to the subset SQLite and Postgres both accept, except the blob column.
func schemaStatements(d string) []string {
	blobType := "BLOB"
	if d == dialect.Postgres {
		blobType = "BYTEA"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + blobTable + ` (
			blob_key TEXT PRIMARY KEY,
			blob_value ` + blobType + ` NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + awardTable + ` (
			id TEXT PRIMARY KEY,
			sequence BIGINT NOT NULL,
			kind TEXT NOT NULL,
			unit_id INTEGER NOT NULL,
			card_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS award_events_sequence ON ` + awardTable + ` (sequence)`,
	}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. KHOUSHOU_DB environment variable
// 2. $XDG_DATA_HOME/khoushou/khoushou.db
// 3. ~/.local/share/khoushou/khoushou.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("KHOUSHOU_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "khoushou", "khoushou.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
