package access

import (
	"context"
	"fmt"
	"log/slog"
)

// Guard decides what an actor may do to a project.
type Guard struct {
	members MemberRepository
	logger  *slog.Logger
}

// NewGuard creates a Guard.
func NewGuard(members MemberRepository, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guard{members: members, logger: logger}
}

// Role returns the actor's effective role on the project, or "" for
// non-members.
func (g *Guard) Role(ctx context.Context, actor, projectID string) (Role, error) {
	if actor == "" {
		return "", nil
	}
	roles, err := g.members.ProjectRoles(ctx, projectID, actor)
	if err != nil {
		return "", fmt.Errorf("loading roles: %w", err)
	}
	return Highest(roles...), nil
}

// Allowed reports whether the actor may perform action on the project.
func (g *Guard) Allowed(ctx context.Context, actor, projectID string, action Action) (bool, error) {
	role, err := g.Role(ctx, actor, projectID)
	if err != nil {
		return false, err
	}
	return Can(role, action), nil
}

// Authorize returns ErrForbidden unless the actor may perform action.
func (g *Guard) Authorize(ctx context.Context, actor, projectID string, action Action) error {
	ok, err := g.Allowed(ctx, actor, projectID, action)
	if err != nil {
		return err
	}
	if !ok {
		g.logger.DebugContext(ctx, "access denied", "actor", actor, "project_id", projectID, "action", action)
		return fmt.Errorf("%w: %s on project %s", ErrForbidden, action, projectID)
	}
	return nil
}

// ForGroups returns a guard over ordering groups that resolve to projects
// through resolver.
func (g *Guard) ForGroups(resolver ProjectResolver) *GroupGuard {
	return &GroupGuard{guard: g, resolver: resolver}
}

// GroupGuard requires write access to the project owning a group.
type GroupGuard struct {
	guard    *Guard
	resolver ProjectResolver
}

// CanMutate reports whether actor may change the membership or order of the
// group.
func (g *GroupGuard) CanMutate(ctx context.Context, actor, groupKey string) (bool, error) {
	projectID, err := g.resolver.ProjectOf(ctx, groupKey)
	if err != nil {
		return false, err
	}
	return g.guard.Allowed(ctx, actor, projectID, ActionWrite)
}
