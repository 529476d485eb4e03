package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/team"
	"github.com/rpggio/planboard/internal/repository"
)

// TeamRepository implements team.Repository for SQLite
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a team
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	query := `INSERT INTO teams (id, name, description, created_at) VALUES (?, ?, ?, ?)`

	if _, err := r.db.conn(ctx).ExecContext(ctx, query, t.ID, t.Name, t.Description, t.CreatedAt); err != nil {
		return translateError(fmt.Errorf("failed to create team: %w", err))
	}
	return nil
}

// Get retrieves a team by ID
func (r *TeamRepository) Get(ctx context.Context, id string) (*team.Team, error) {
	query := `SELECT id, name, description, created_at FROM teams WHERE id = ?`

	var t team.Team
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}

// Delete removes a team; member rows cascade and projects are detached
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return translateError(fmt.Errorf("failed to delete team: %w", err))
	}
	return requireAffected(result)
}

// ListForUser returns the teams a user belongs to
func (r *TeamRepository) ListForUser(ctx context.Context, userID string) ([]team.Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = ?
		ORDER BY t.name ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []team.Team{}
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	return teams, nil
}

// AddMember inserts or updates a team membership
func (r *TeamRepository) AddMember(ctx context.Context, m *team.Member) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (team_id, user_id) DO UPDATE SET role = excluded.role
	`

	if _, err := r.db.conn(ctx).ExecContext(ctx, query, m.TeamID, m.UserID, m.Role, m.AddedAt); err != nil {
		return translateError(fmt.Errorf("failed to add team member: %w", err))
	}
	return nil
}

// RemoveMember deletes a team membership
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID)
	if err != nil {
		return translateError(fmt.Errorf("failed to remove team member: %w", err))
	}
	return requireAffected(result)
}

// ListMembers returns a team's members
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	query := `
		SELECT team_id, user_id, role, added_at
		FROM team_members
		WHERE team_id = ?
		ORDER BY added_at ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := []team.Member{}
	for rows.Next() {
		var m team.Member
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}
	return members, nil
}

// TeamRole returns the user's role in the team, or "" when not a member
func (r *TeamRepository) TeamRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	var role string
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT role FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get team role: %w", err)
	}
	return access.Normalize(role), nil
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
