// Package sqlstore implements the repository contracts over database/sql.
// It supports two drivers: modernc.org/sqlite, a pure Go SQLite build for
// embedded single-binary deployments, and PostgreSQL through the
// jackc/pgx/v5 stdlib adapter. One generic store translates Specifications
// into dialect-aware SQL for both.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Dialect selects placeholder style and insert-returning behavior.
type Dialect string

const (
	// DialectSQLite uses ? placeholders and LastInsertId.
	DialectSQLite Dialect = "sqlite"

	// DialectPostgres uses $n placeholders and INSERT ... RETURNING id.
	DialectPostgres Dialect = "postgres"
)

// Config holds connection settings.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string

	// Path is the SQLite database file. Use ":memory:" for tests.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int

	// MaxIdleConns sets the maximum number of idle connections.
	MaxIdleConns int

	// ConnMaxLifetime sets the maximum connection lifetime.
	ConnMaxLifetime time.Duration

	// BusyTimeout sets the SQLite busy timeout in milliseconds.
	BusyTimeout int

	// JournalMode sets the SQLite journal mode (WAL recommended).
	JournalMode string
}

// DefaultSQLiteConfig returns a default embedded configuration.
func DefaultSQLiteConfig(dbPath string) Config {
	return Config{
		Driver:          "sqlite",
		Path:            dbPath,
		MaxOpenConns:    1, // SQLite works best with single writer
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5000,
		JournalMode:     "WAL",
	}
}

// DB wraps a sql.DB connection and its dialect.
type DB struct {
	db      *sql.DB
	dialect Dialect
	logger  zerolog.Logger
}

// NewDB opens a database connection for the configured driver.
func NewDB(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Driver {
	case "sqlite", "":
		connStr := fmt.Sprintf(
			"%s?_journal_mode=%s&_busy_timeout=%d&_foreign_keys=ON",
			cfg.Path, cfg.JournalMode, cfg.BusyTimeout,
		)
		db, err = sql.Open("sqlite", connStr)
		dialect = DialectSQLite
	case "postgres":
		db, err = sql.Open("pgx", cfg.DSN)
		dialect = DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("driver", string(dialect)).
		Msg("connected to database")

	return &DB{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Info().Msg("closing database connection")
	return db.db.Close()
}

// Ping checks the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Health checks the database connection health.
func (db *DB) Health(ctx context.Context) error {
	return db.Ping(ctx)
}

// Dialect returns the active dialect.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// ExecContext executes a query without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// WithTx executes a function within a transaction.
// If the function returns an error, the transaction is rolled back.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Migrate runs schema migrations for the active dialect.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = db.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	db.logger.Info().Int("current_version", currentVersion).Msg("checking migrations")

	if currentVersion < 1 {
		name := fmt.Sprintf("migrations/000001_init.%s.sql", db.dialect)
		migration, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		if _, err := db.db.ExecContext(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to apply migration 1: %w", err)
		}

		stmt := db.rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
		if _, err := db.db.ExecContext(ctx, stmt, 1, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}

		db.logger.Info().Int("version", 1).Msg("applied migration")
	}

	return nil
}

// rebind converts ? placeholders to the dialect's style.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
