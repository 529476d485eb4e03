package board

import (
	"context"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/ordering"
)

// Repository provides persistence for column content. Position is owned by
// the Orderer.
type Repository interface {
	Create(ctx context.Context, c *Column) error
	Get(ctx context.Context, id string) (*Column, error)
	Update(ctx context.Context, c *Column) error
	ListByProject(ctx context.Context, projectID string) ([]Column, error)
	CountTasks(ctx context.Context, columnID string) (int, error)
}

// TaskLister lists a project's tasks ordered by column and position.
type TaskLister interface {
	ListByProject(ctx context.Context, projectID string) ([]task.Task, error)
}

// Orderer keeps columns densely ordered within their project.
type Orderer interface {
	Append(ctx context.Context, actor, parentKey string, insert func(ctx context.Context, position int) error) (int, error)
	Reorder(ctx context.Context, actor, parentKey string, orderedIDs []string) error
	Move(ctx context.Context, actor, id, targetParentKey string, targetIndex int) (ordering.Placement, error)
	Remove(ctx context.Context, actor, id string) error
}

// Authorizer checks an actor's access to a project.
type Authorizer interface {
	Authorize(ctx context.Context, actor, projectID string, action access.Action) error
}

// Transactor runs fn in a single storage transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActivityRecorder records committed mutations.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *activity.Entry)
}
