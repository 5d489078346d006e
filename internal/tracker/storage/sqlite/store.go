// Package sqlite provides a SQLite-backed project and task store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlddl "github.com/louisbranch/tasktrack/internal/platform/storage/sqlddl"
	"github.com/louisbranch/tasktrack/internal/platform/timeouts"
	"github.com/louisbranch/tasktrack/internal/tracker/storage"
	"github.com/louisbranch/tasktrack/internal/tracker/storage/sqlite/schema"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type options struct {
	foreignKeys bool
	busyTimeout time.Duration
}

// Option adjusts how Open configures the connection.
type Option func(*options)

// WithForeignKeys turns on engine enforcement of tasks.project_id. It is off
// by default, matching the SQLite default.
func WithForeignKeys(enabled bool) Option {
	return func(o *options) { o.foreignKeys = enabled }
}

// WithBusyTimeout sets how long a statement waits on a locked database file.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(o *options) { o.busyTimeout = timeout }
}

// Store persists projects and tasks in one SQLite file.
type Store struct {
	queries
	sqlDB *sql.DB
}

// Open opens the SQLite file at path, creating it and its parent directory
// when missing. The handle is pinned to a single connection so generated ids
// and transactions always refer to the same session.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	o := options{busyTimeout: timeouts.DBBusy}
	for _, opt := range opts {
		opt(&o)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn(absPath, o))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{queries: queries{db: sqlDB}, sqlDB: sqlDB}, nil
}

// dsn renders an absolute path as a file: URI so characters such as ? and
// # stay part of the file name.
func dsn(absPath string, o options) string {
	foreignKeys := 0
	if o.foreignKeys {
		foreignKeys = 1
	}
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{
		Scheme:   "file",
		Path:     p,
		RawQuery: fmt.Sprintf("_pragma=foreign_keys(%d)&_pragma=busy_timeout(%d)", foreignKeys, o.busyTimeout.Milliseconds()),
	}
	return u.String()
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateTable executes one DDL statement.
func (s *Store) CreateTable(ctx context.Context, ddl string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ErrNotConfigured
	}
	if strings.TrimSpace(ddl) == "" {
		return fmt.Errorf("ddl statement is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// InitSchema runs every embedded table definition. A failing statement does
// not stop the ones after it; failures come back joined.
func (s *Store) InitSchema(ctx context.Context) error {
	statements, err := sqlddl.Load(schema.FS, ".")
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	var errs []error
	for _, stmt := range statements {
		if err := s.CreateTable(ctx, stmt.SQL); err != nil {
			if sqlddl.IsAlreadyExistsError(err) {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", stmt.Name, err))
		}
	}
	return errors.Join(errs...)
}

// InTx runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ErrNotConfigured
	}
	if fn == nil {
		return fmt.Errorf("transaction function is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&queries{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isConstraintViolation reports whether the engine rejected a row on a
// NOT NULL, foreign key or other constraint.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

var _ storage.Store = (*Store)(nil)
