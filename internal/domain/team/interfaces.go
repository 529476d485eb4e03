package team

import (
	"context"

	"github.com/rpggio/planboard/internal/domain/access"
)

// Repository provides persistence for teams and their members.
type Repository interface {
	Create(ctx context.Context, t *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]Team, error)
	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	// TeamRole returns "" when the user is not a member.
	TeamRole(ctx context.Context, teamID, userID string) (access.Role, error)
}

// Transactor runs fn in a single storage transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
