package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/planboard/internal/domain/board"
	"github.com/rpggio/planboard/internal/repository"
)

// ColumnRepository implements board.Repository and task.ColumnLookup for SQLite
type ColumnRepository struct {
	db *DB
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(db *DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create inserts a column at its assigned position
func (r *ColumnRepository) Create(ctx context.Context, c *board.Column) error {
	query := `
		INSERT INTO board_columns (id, project_id, name, wip_limit, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, c.ID, c.ProjectID, c.Name, c.WIPLimit, c.Position, c.CreatedAt)
	if err != nil {
		return translateError(fmt.Errorf("failed to create column: %w", err))
	}
	return nil
}

// Get retrieves a column by ID
func (r *ColumnRepository) Get(ctx context.Context, id string) (*board.Column, error) {
	query := `
		SELECT id, project_id, name, wip_limit, position, created_at
		FROM board_columns
		WHERE id = ?
	`

	var c board.Column
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.ProjectID,
		&c.Name,
		&c.WIPLimit,
		&c.Position,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}
	return &c, nil
}

// Update saves a column's name and WIP limit. Position is left to the
// ordering manager.
func (r *ColumnRepository) Update(ctx context.Context, c *board.Column) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE board_columns SET name = ?, wip_limit = ? WHERE id = ?`, c.Name, c.WIPLimit, c.ID)
	if err != nil {
		return translateError(fmt.Errorf("failed to update column: %w", err))
	}
	return requireAffected(result)
}

// ListByProject returns a project's columns by position
func (r *ColumnRepository) ListByProject(ctx context.Context, projectID string) ([]board.Column, error) {
	query := `
		SELECT id, project_id, name, wip_limit, position, created_at
		FROM board_columns
		WHERE project_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	columns := []board.Column{}
	for rows.Next() {
		var c board.Column
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.WIPLimit, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return columns, nil
}

// CountTasks returns the number of tasks in a column
func (r *ColumnRepository) CountTasks(ctx context.Context, columnID string) (int, error) {
	var count int
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE column_id = ?`, columnID).Scan(&count)
	if err != nil {
		return 0, translateError(fmt.Errorf("failed to count tasks: %w", err))
	}
	return count, nil
}

// ProjectOf returns the project owning a column
func (r *ColumnRepository) ProjectOf(ctx context.Context, columnID string) (string, error) {
	var projectID string
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT project_id FROM board_columns WHERE id = ?`, columnID).Scan(&projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("column %s: %w", columnID, repository.ErrNotFound)
	}
	if err != nil {
		return "", translateError(fmt.Errorf("failed to resolve column: %w", err))
	}
	return projectID, nil
}
