package access

import "context"

// MemberRepository reports the roles a user holds on a project, directly or
// through the project's team.
type MemberRepository interface {
	ProjectRoles(ctx context.Context, projectID, userID string) ([]Role, error)
}

// ProjectResolver maps an ordering group key to the project that owns it.
type ProjectResolver interface {
	ProjectOf(ctx context.Context, groupKey string) (string, error)
}

// ResolverFunc adapts a function to ProjectResolver.
type ResolverFunc func(ctx context.Context, groupKey string) (string, error)

func (f ResolverFunc) ProjectOf(ctx context.Context, groupKey string) (string, error) {
	return f(ctx, groupKey)
}
