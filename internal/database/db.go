// Package database stores the calendar's reference documents in SQLite.
//
// A DB is a refdata.Source: the engine can read the Proprium, missals,
// decrees and overlays from it instead of the copies compiled into the
// binary. Documents are written by Import and are read-only otherwise.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNotFound is returned when a requested document doesn't exist.
var ErrNotFound = errors.New("document not found")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// DB is an open document store.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config selects the database file and how it is opened.
type Config struct {
	Path        string
	ReadOnly    bool          // serving only; Migrate and Import fail
	BusyTimeout time.Duration // wait for a locked database before failing
}

// DefaultConfig opens path for reading and writing.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
	}
}

// dsn renders cfg as a go-sqlite3 connection string.
func (cfg Config) dsn() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10))
	q.Set("_foreign_keys", "on")
	if cfg.ReadOnly {
		q.Set("_query_only", "true")
	} else if cfg.Path != ":memory:" {
		q.Set("_journal_mode", "WAL")
	}
	return "file:" + cfg.Path + "?" + q.Encode()
}

// Open connects to the database file, creating its directory when the
// database is writable. The caller closes the DB.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(cfg.Path); !cfg.ReadOnly && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; readers share the WAL. An in-memory database
	// exists per connection, so it must never get a second one.
	switch {
	case cfg.ReadOnly:
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	case cfg.Path == ":memory:":
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxIdleTime(0)
	default:
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database %s: %w", cfg.Path, err)
	}

	logger.Info("database connected", slog.String("path", cfg.Path), slog.Bool("read_only", cfg.ReadOnly))
	return &DB{DB: sqlDB, path: cfg.Path, logger: logger}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Debug("closing database", slog.String("path", db.path))
	return db.DB.Close()
}

// Health reports whether the database answers and carries the document schema.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return fmt.Errorf("database %s: %w", db.path, err)
	}
	return nil
}

// Migrate brings the schema up to date in one transaction and returns the
// number of migrations it applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	var pending []migration
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaMigrationsTable); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		current := 0
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if current > len(migrations) {
			return fmt.Errorf("schema version %d is newer than this binary (%d)", current, len(migrations))
		}

		pending = migrations[current:]
		for _, m := range pending {
			db.logger.Info("applying migration", slog.Int("version", m.version), slog.String("name", m.name))
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
