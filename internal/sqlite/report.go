package sqlite

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rpggio/planboard/internal/domain/report"
	"github.com/rpggio/planboard/internal/domain/task"
)

// ReportRepository implements report.Repository for SQLite
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ColumnCounts returns task counts for every column in board order
func (r *ReportRepository) ColumnCounts(ctx context.Context, projectID string) ([]report.ColumnCount, error) {
	query := `
		SELECT c.id, c.name, c.wip_limit, COUNT(t.id)
		FROM board_columns c
		LEFT JOIN tasks t ON t.column_id = c.id
		WHERE c.project_id = ?
		GROUP BY c.id, c.name, c.wip_limit, c.position
		ORDER BY c.position ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by column: %w", err)
	}
	defer rows.Close()

	counts := []report.ColumnCount{}
	for rows.Next() {
		var c report.ColumnCount
		if err := rows.Scan(&c.ColumnID, &c.Name, &c.WIPLimit, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan column count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column counts: %w", err)
	}
	return counts, nil
}

// PriorityCounts returns task counts keyed by priority. Priorities with no
// tasks are absent.
func (r *ReportRepository) PriorityCounts(ctx context.Context, projectID string) (map[task.Priority]int, error) {
	query := `
		SELECT priority, COUNT(*)
		FROM tasks
		WHERE project_id = ?
		GROUP BY priority
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	defer rows.Close()

	counts := map[task.Priority]int{}
	for rows.Next() {
		var p task.Priority
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		counts[p] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating priority counts: %w", err)
	}
	return counts, nil
}

// AssigneeCounts returns task counts per assigned user, highest first
func (r *ReportRepository) AssigneeCounts(ctx context.Context, projectID string) ([]report.AssigneeCount, error) {
	query := `
		SELECT u.id, u.display_name, COUNT(*) AS n
		FROM tasks t
		JOIN users u ON u.id = t.assignee_id
		WHERE t.project_id = ?
		GROUP BY u.id, u.display_name
		ORDER BY n DESC, u.display_name ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by assignee: %w", err)
	}
	defer rows.Close()

	counts := []report.AssigneeCount{}
	for rows.Next() {
		var c report.AssigneeCount
		if err := rows.Scan(&c.UserID, &c.DisplayName, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan assignee count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignee counts: %w", err)
	}
	return counts, nil
}

// UnassignedCount returns the number of tasks without an assignee
func (r *ReportRepository) UnassignedCount(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ? AND assignee_id IS NULL`, projectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unassigned tasks: %w", err)
	}
	return n, nil
}

// OverdueTasks returns tasks due before now, earliest first. Due dates are
// compared after scanning so the stored timestamp format does not matter.
func (r *ReportRepository) OverdueTasks(ctx context.Context, projectID string, now time.Time) ([]task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.project_id = ? AND t.due_date IS NOT NULL
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	defer rows.Close()

	overdue := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if t.Overdue(now) {
			overdue = append(overdue, *t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due tasks: %w", err)
	}

	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(*overdue[j].DueDate)
	})
	return overdue, nil
}
