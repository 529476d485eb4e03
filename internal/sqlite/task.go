package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/repository"
)

const taskColumns = `
	t.id, t.project_id, t.column_id, t.title, t.description, t.priority,
	t.assignee_id, t.due_date, t.position, t.created_by, t.created_at, t.modified_at
`

// TaskRepository implements task.Repository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task at its assigned position
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, project_id, column_id, title, description, priority,
			assignee_id, due_date, position, created_by, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.ColumnID,
		t.Title,
		t.Description,
		t.Priority,
		t.AssigneeID,
		t.DueDate,
		t.Position,
		t.CreatedBy,
		t.CreatedAt,
		t.ModifiedAt,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to create task: %w", err))
	}
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = ?`

	t, err := scanTask(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// Update saves a task's content fields. Column and position are left to the
// ordering manager.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, assignee_id = ?,
		    due_date = ?, modified_at = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.Priority,
		t.AssigneeID,
		t.DueDate,
		t.ModifiedAt,
		t.ID,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to update task: %w", err))
	}
	return requireAffected(result)
}

// ListByColumn returns a column's tasks by position
func (r *TaskRepository) ListByColumn(ctx context.Context, columnID string) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.column_id = ? ORDER BY t.position ASC`
	return r.list(ctx, query, columnID)
}

// ListByProject returns a project's tasks by column position, then task
// position
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN board_columns c ON c.id = t.column_id
		WHERE t.project_id = ?
		ORDER BY c.position ASC, t.position ASC
	`
	return r.list(ctx, query, projectID)
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]task.Task, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads the columns listed in taskColumns, plus any extra dests.
func scanTask(row rowScanner, extra ...any) (*task.Task, error) {
	var t task.Task
	var assignee sql.NullString
	var due sql.NullTime
	dest := append([]any{
		&t.ID,
		&t.ProjectID,
		&t.ColumnID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&assignee,
		&due,
		&t.Position,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.ModifiedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if assignee.Valid {
		t.AssigneeID = &assignee.String
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.ModifiedAt = t.ModifiedAt.UTC()
	return &t, nil
}
