package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	// SQLiteFile is the database file name inside the data directory.
	SQLiteFile = "todowing.db"

	defaultTimeout = 2 * time.Second
)

// SQLKV keeps blobs in a two-column table, one row per key.
type SQLKV struct {
	db      *sql.DB
	driver  string
	timeout time.Duration
}

// NewSQLiteKV opens (or creates) the SQLite database in dir. Pass ":memory:"
// for a private in-memory database.
func NewSQLiteKV(dir string, timeout time.Duration) (*SQLKV, error) {
	dsn := ":memory:"
	if dir != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		dsn = filepath.Join(dir, SQLiteFile)
	}
	return NewSQLKV(DriverSQLite, dsn, timeout)
}

// NewSQLKV opens a database with the given driver ("sqlite" or "mysql") and
// makes sure the kv table exists.
func NewSQLKV(driver, dsn string, timeout time.Duration) (*SQLKV, error) {
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer; also keeps ":memory:" on a single shared connection.
		db.SetMaxOpenConns(1)
	}

	s := &SQLKV{db: db, driver: driver, timeout: timeout}

	ctx, cancel := s.context()
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLKV) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// initSchema creates the kv table if it doesn't exist.
func (s *SQLKV) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		name TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if s.driver == DriverMySQL {
		schema = `
	CREATE TABLE IF NOT EXISTS kv (
		name VARCHAR(191) PRIMARY KEY,
		value LONGBLOB NOT NULL,
		updated_at VARCHAR(64) NOT NULL
	)`
	}
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Get returns the value stored under key.
func (s *SQLKV) Get(key string) ([]byte, error) {
	ctx, cancel := s.context()
	defer cancel()

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE name = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for key.
func (s *SQLKV) Set(key string, value []byte) error {
	ctx, cancel := s.context()
	defer cancel()

	query := `INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if s.driver == DriverMySQL {
		query = `INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`
	}

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLKV) Close() error {
	return s.db.Close()
}
