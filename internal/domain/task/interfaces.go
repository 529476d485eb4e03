package task

import (
	"context"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/ordering"
)

// Repository provides persistence for task content. Column and position are
// owned by the Orderer.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, t *Task) error
	ListByColumn(ctx context.Context, columnID string) ([]Task, error)
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
}

// SearchRepository provides full-text search over tasks.
type SearchRepository interface {
	Search(ctx context.Context, projectID, query string, opts SearchOptions) ([]SearchResult, error)
}

// ColumnLookup resolves a column to its project.
type ColumnLookup interface {
	ProjectOf(ctx context.Context, columnID string) (string, error)
}

// Orderer keeps tasks densely ordered within their columns.
type Orderer interface {
	Append(ctx context.Context, actor, parentKey string, insert func(ctx context.Context, position int) error) (int, error)
	Reorder(ctx context.Context, actor, parentKey string, orderedIDs []string) error
	Move(ctx context.Context, actor, id, targetParentKey string, targetIndex int) (ordering.Placement, error)
	Remove(ctx context.Context, actor, id string) error
}

// Authorizer checks an actor's access to a project.
type Authorizer interface {
	Authorize(ctx context.Context, actor, projectID string, action access.Action) error
	Allowed(ctx context.Context, actor, projectID string, action access.Action) (bool, error)
}

// ActivityRecorder records committed mutations.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *activity.Entry)
}
