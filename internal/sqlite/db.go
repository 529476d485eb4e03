package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/planboard/migrations"
	_ "modernc.org/sqlite"
)

// Pragmas applied to every pooled connection. Transactions start IMMEDIATE so
// concurrent read-modify-write cycles queue on the write lock instead of
// failing at upgrade time.
const connParams = "_pragma=foreign_keys(1)&_txlock=immediate"

// DefaultBusyTimeout is how long a connection waits for the write lock.
const DefaultBusyTimeout = 5 * time.Second

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
	busyTimeout time.Duration
}

// Option configures New.
type Option func(*DB)

// WithBusyTimeout sets how long a statement waits for a locked database.
// Non-positive values are ignored.
func WithBusyTimeout(d time.Duration) Option {
	return func(db *DB) {
		if d > 0 {
			db.busyTimeout = d
		}
	}
}

// New creates a new SQLite database connection
func New(path string, opts ...Option) (*DB, error) {
	d := &DB{busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(d)
	}

	db, err := sql.Open("sqlite", dataSourceName(path, d.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to an in-memory database is its own database.
	if isMemory(path) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d.DB = db
	return d, nil
}

func dataSourceName(path string, busyTimeout time.Duration) string {
	if path == "" || path == ":memory:" {
		path = "file::memory:"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s&_pragma=busy_timeout(%d)", path, sep, connParams, busyTimeout.Milliseconds())
}

func isMemory(path string) bool {
	return path == "" || strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory")
}

// RunMigrations applies the embedded schema
func (db *DB) RunMigrations() error {
	data, err := migrations.FS.ReadFile(migrations.Initial)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx used by the repositories.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried by ctx, or the pool.
func (db *DB) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}

// InTx runs fn inside a transaction. Repositories called with the context
// passed to fn join the transaction. A nested call joins the outer transaction.
// Waiting for the write lock never outlasts the context's deadline.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return translateError(fmt.Errorf("failed to acquire connection: %w", err))
	}
	defer conn.Close()

	bounded := false
	if deadline, ok := ctx.Deadline(); ok {
		if wait := time.Until(deadline); wait < db.busyTimeout {
			if err := setBusyTimeout(ctx, conn, wait); err != nil {
				return translateError(err)
			}
			defer setBusyTimeout(context.Background(), conn, db.busyTimeout)
			bounded = true
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		if bounded && (isBusy(err) || ctx.Err() != nil) {
			// The wait used up the caller's deadline.
			return fmt.Errorf("failed to begin transaction: %w: %v", context.DeadlineExceeded, err)
		}
		return translateError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func setBusyTimeout(ctx context.Context, conn *sql.Conn, d time.Duration) error {
	ms := max((d + time.Millisecond - 1).Milliseconds(), 1)
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", ms)); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return nil
}
