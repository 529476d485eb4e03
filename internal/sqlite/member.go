package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/project"
)

// MemberRepository implements project.MemberRepository and
// access.MemberRepository for SQLite
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// AddMember inserts or updates a direct project membership
func (r *MemberRepository) AddMember(ctx context.Context, m *project.Member) error {
	query := `
		INSERT INTO project_members (project_id, user_id, role, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = excluded.role
	`

	if _, err := r.db.conn(ctx).ExecContext(ctx, query, m.ProjectID, m.UserID, m.Role, m.AddedAt); err != nil {
		return translateError(fmt.Errorf("failed to add project member: %w", err))
	}
	return nil
}

// RemoveMember deletes a direct project membership
func (r *MemberRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
	if err != nil {
		return translateError(fmt.Errorf("failed to remove project member: %w", err))
	}
	return requireAffected(result)
}

// ListMembers returns the direct members of a project
func (r *MemberRepository) ListMembers(ctx context.Context, projectID string) ([]project.Member, error) {
	query := `
		SELECT project_id, user_id, role, added_at
		FROM project_members
		WHERE project_id = ?
		ORDER BY added_at ASC, user_id
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	members := []project.Member{}
	for rows.Next() {
		var m project.Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project members: %w", err)
	}
	return members, nil
}

// ProjectRoles returns the user's direct role and its role in the project's
// team, when present
func (r *MemberRepository) ProjectRoles(ctx context.Context, projectID, userID string) ([]access.Role, error) {
	query := `
		SELECT role FROM project_members WHERE project_id = ? AND user_id = ?
		UNION ALL
		SELECT tm.role
		FROM projects p
		JOIN team_members tm ON tm.team_id = p.team_id
		WHERE p.id = ? AND tm.user_id = ?
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, projectID, userID, projectID, userID)
	if err != nil {
		return nil, translateError(fmt.Errorf("failed to load project roles: %w", err))
	}
	defer rows.Close()

	var roles []access.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, access.Normalize(role))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}
	return roles, nil
}
