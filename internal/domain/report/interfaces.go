package report

import (
	"context"
	"time"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/task"
)

// Repository runs the aggregate queries behind a Report.
type Repository interface {
	// ColumnCounts returns every column in board order, including empty ones.
	ColumnCounts(ctx context.Context, projectID string) ([]ColumnCount, error)
	PriorityCounts(ctx context.Context, projectID string) (map[task.Priority]int, error)
	// AssigneeCounts returns assigned users by descending count.
	AssigneeCounts(ctx context.Context, projectID string) ([]AssigneeCount, error)
	UnassignedCount(ctx context.Context, projectID string) (int, error)
	// OverdueTasks returns tasks due before now, earliest first.
	OverdueTasks(ctx context.Context, projectID string, now time.Time) ([]task.Task, error)
}

// Authorizer checks an actor's access to a project.
type Authorizer interface {
	Authorize(ctx context.Context, actor, projectID string, action access.Action) error
}

// Transactor runs fn in a single storage transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
