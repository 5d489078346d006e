package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/tasktrack/internal/tracker/storage"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the record statements. Run against the bare handle each
// statement autocommits; run against a transaction it commits with it.
type queries struct {
	db dbtx
}

const selectTaskColumns = `SELECT id, name, priority, status_id, project_id, begin_date, end_date
	   FROM tasks`

func (q *queries) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q == nil || q.db == nil {
		return storage.ErrNotConfigured
	}
	return nil
}

// CreateProject inserts one project and returns its generated id.
func (q *queries) CreateProject(ctx context.Context, p storage.Project) (int64, error) {
	if err := q.ready(ctx); err != nil {
		return 0, err
	}
	result, err := q.db.ExecContext(
		ctx,
		`INSERT INTO projects (name, begin_date, end_date)
		 VALUES (?, ?, ?)`,
		p.Name,
		p.BeginDate,
		p.EndDate,
	)
	if err != nil {
		return 0, wrapWriteError("create project", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create project: last insert id: %w", err)
	}
	return id, nil
}

// GetProject returns one project by id.
func (q *queries) GetProject(ctx context.Context, id int64) (storage.Project, error) {
	if err := q.ready(ctx); err != nil {
		return storage.Project{}, err
	}
	row := q.db.QueryRowContext(
		ctx,
		`SELECT id, name, begin_date, end_date
		   FROM projects
		  WHERE id = ?`,
		id,
	)

	var p storage.Project
	var beginDate, endDate sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &beginDate, &endDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Project{}, storage.ErrNotFound
		}
		return storage.Project{}, fmt.Errorf("get project: %w", err)
	}
	p.BeginDate = beginDate.String
	p.EndDate = endDate.String
	return p, nil
}

// CreateTask inserts one task and returns its generated id.
func (q *queries) CreateTask(ctx context.Context, t storage.Task) (int64, error) {
	if err := q.ready(ctx); err != nil {
		return 0, err
	}
	result, err := q.db.ExecContext(
		ctx,
		`INSERT INTO tasks (name, priority, status_id, project_id, begin_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Name,
		t.Priority,
		t.StatusID,
		t.ProjectID,
		t.BeginDate,
		t.EndDate,
	)
	if err != nil {
		return 0, wrapWriteError("create task", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create task: last insert id: %w", err)
	}
	return id, nil
}

// GetTask returns one task by id.
func (q *queries) GetTask(ctx context.Context, id int64) (storage.Task, error) {
	if err := q.ready(ctx); err != nil {
		return storage.Task{}, err
	}
	row := q.db.QueryRowContext(ctx, selectTaskColumns+`
		  WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Task{}, storage.ErrNotFound
		}
		return storage.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns every task ordered by id.
func (q *queries) ListTasks(ctx context.Context) ([]storage.Task, error) {
	if err := q.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, selectTaskColumns+`
		  ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksByPriority returns tasks with exactly the given priority, ordered
// by id. NULL priorities never compare equal. No match yields an empty slice.
func (q *queries) ListTasksByPriority(ctx context.Context, priority int64) ([]storage.Task, error) {
	if err := q.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, selectTaskColumns+`
		  WHERE priority = ?
		  ORDER BY id ASC`, priority)
	if err != nil {
		return nil, fmt.Errorf("list tasks by priority: %w", err)
	}
	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("list tasks by priority: %w", err)
	}
	return tasks, nil
}

// UpdateTaskName renames the task with the given id. A missing id affects
// zero rows and is not an error.
func (q *queries) UpdateTaskName(ctx context.Context, id int64, name string) (int64, error) {
	if err := q.ready(ctx); err != nil {
		return 0, err
	}
	result, err := q.db.ExecContext(
		ctx,
		`UPDATE tasks SET name = ? WHERE id = ?`,
		name,
		id,
	)
	if err != nil {
		return 0, wrapWriteError("update task name", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update task name: rows affected: %w", err)
	}
	return affected, nil
}

// DeleteTask removes the task with the given id. A missing id affects zero
// rows and is not an error.
func (q *queries) DeleteTask(ctx context.Context, id int64) (int64, error) {
	if err := q.ready(ctx); err != nil {
		return 0, err
	}
	result, err := q.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete task: rows affected: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (storage.Task, error) {
	var t storage.Task
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Priority,
		&t.StatusID,
		&t.ProjectID,
		&t.BeginDate,
		&t.EndDate,
	); err != nil {
		return storage.Task{}, err
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]storage.Task, error) {
	defer rows.Close()

	tasks := make([]storage.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func wrapWriteError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ storage.Tx = (*queries)(nil)
