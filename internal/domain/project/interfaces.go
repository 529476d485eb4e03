package project

import (
	"context"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]ProjectSummary, error)
}

// MemberRepository provides persistence for direct project members.
type MemberRepository interface {
	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	ListMembers(ctx context.Context, projectID string) ([]Member, error)
}

// Authorizer checks an actor's access to a project.
type Authorizer interface {
	Authorize(ctx context.Context, actor, projectID string, action access.Action) error
}

// TeamRoles reports a user's role in a team.
type TeamRoles interface {
	TeamRole(ctx context.Context, teamID, userID string) (access.Role, error)
}

// BoardSeeder creates a new project's initial columns.
type BoardSeeder interface {
	SeedColumns(ctx context.Context, actor, projectID string, names []string) error
}

// Transactor runs fn in a single storage transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActivityRecorder records committed mutations.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *activity.Entry)
}
