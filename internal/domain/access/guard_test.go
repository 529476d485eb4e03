package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/repository"
	"github.com/rpggio/planboard/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role   access.Role
		action access.Action
		want   bool
	}{
		{access.RoleViewer, access.ActionRead, true},
		{access.RoleViewer, access.ActionWrite, false},
		{access.RoleEditor, access.ActionWrite, true},
		{access.RoleEditor, access.ActionAdmin, false},
		{access.RoleAdmin, access.ActionAdmin, true},
		{"", access.ActionRead, false},
		{"owner", access.ActionRead, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, access.Can(tt.role, tt.action), "%s/%s", tt.role, tt.action)
	}
}

func TestNormalizeAndHighest(t *testing.T) {
	require.Equal(t, access.RoleEditor, access.Normalize("editor"))
	require.Equal(t, access.RoleViewer, access.Normalize("superuser"))

	require.Equal(t, access.RoleAdmin, access.Highest(access.RoleViewer, access.RoleAdmin, access.RoleEditor))
	require.Equal(t, access.RoleEditor, access.Highest(access.RoleViewer, access.RoleEditor))
	require.Equal(t, access.Role(""), access.Highest())
}

func TestGuard_Authorize(t *testing.T) {
	ctx := context.Background()
	members := &mocks.MemberRepository{}
	members.On("ProjectRoles", ctx, "p1", "editor").Return([]access.Role{access.RoleViewer, access.RoleEditor}, nil)
	members.On("ProjectRoles", ctx, "p1", "stranger").Return([]access.Role(nil), nil)

	guard := access.NewGuard(members, nil)

	require.NoError(t, guard.Authorize(ctx, "editor", "p1", access.ActionWrite))
	require.ErrorIs(t, guard.Authorize(ctx, "editor", "p1", access.ActionAdmin), access.ErrForbidden)
	require.ErrorIs(t, guard.Authorize(ctx, "stranger", "p1", access.ActionRead), access.ErrForbidden)
	require.ErrorIs(t, guard.Authorize(ctx, "", "p1", access.ActionRead), access.ErrForbidden)
}

func TestGroupGuard_CanMutate(t *testing.T) {
	ctx := context.Background()
	members := &mocks.MemberRepository{}
	members.On("ProjectRoles", ctx, "p1", "viewer").Return([]access.Role{access.RoleViewer}, nil)
	members.On("ProjectRoles", ctx, "p1", "editor").Return([]access.Role{access.RoleEditor}, nil)

	columns := access.ResolverFunc(func(_ context.Context, key string) (string, error) {
		if key == "col1" {
			return "p1", nil
		}
		return "", repository.ErrNotFound
	})
	guard := access.NewGuard(members, nil).ForGroups(columns)

	ok, err := guard.CanMutate(ctx, "editor", "col1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = guard.CanMutate(ctx, "viewer", "col1")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = guard.CanMutate(ctx, "editor", "missing")
	require.True(t, errors.Is(err, repository.ErrNotFound))
}
