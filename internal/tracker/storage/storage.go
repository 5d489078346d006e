// Package storage defines persistence contracts for projects and tasks.
package storage

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint indicates the engine rejected a row, for example a NULL
	// in a required column or an unknown project when foreign keys are on.
	ErrConstraint = errors.New("constraint violation")
	// ErrNotConfigured indicates a store method was called without an open
	// database handle.
	ErrNotConfigured = errors.New("storage is not configured")
)

// Project is a top-level grouping of tasks with a date range.
type Project struct {
	ID        int64
	Name      string
	BeginDate string
	EndDate   string
}

// Task is one unit of work belonging to a project. Priority is optional;
// an invalid value is stored and read back as NULL.
type Task struct {
	ID        int64
	Name      string
	Priority  sql.NullInt64
	StatusID  int64
	ProjectID int64
	BeginDate string
	EndDate   string
}

// PriorityOf returns a set priority.
func PriorityOf(p int64) sql.NullInt64 {
	return sql.NullInt64{Int64: p, Valid: true}
}

// ProjectStore persists projects.
type ProjectStore interface {
	// CreateProject inserts p and returns the generated id. p.ID is ignored.
	CreateProject(ctx context.Context, p Project) (int64, error)
	GetProject(ctx context.Context, id int64) (Project, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	// CreateTask inserts t and returns the generated id. t.ID is ignored.
	CreateTask(ctx context.Context, t Task) (int64, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	// ListTasks returns every task ordered by id.
	ListTasks(ctx context.Context) ([]Task, error)
	// ListTasksByPriority returns tasks whose priority equals priority,
	// ordered by id. Tasks without a priority never match.
	ListTasksByPriority(ctx context.Context, priority int64) ([]Task, error)
	// UpdateTaskName renames one task and returns the rows affected.
	UpdateTaskName(ctx context.Context, id int64, name string) (int64, error)
	// DeleteTask removes one task and returns the rows affected.
	DeleteTask(ctx context.Context, id int64) (int64, error)
}

// Tx is the set of record operations available inside a scoped transaction.
type Tx interface {
	ProjectStore
	TaskStore
}

// Store is the full persistence surface used by the tracker.
//
// Every mutating call commits before it returns, either on its own or, for
// calls made through InTx, when the callback returns nil.
type Store interface {
	Tx
	// InitSchema creates the projects and tasks tables when missing. Each
	// statement runs even when an earlier one failed; failures are joined.
	InitSchema(ctx context.Context) error
	// InTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
