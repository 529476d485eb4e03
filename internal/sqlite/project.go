package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, name, description, team_id, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.TeamID,
		proj.OwnerID,
		proj.CreatedAt,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to create project: %w", err))
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, description, team_id, owner_id, created_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	var teamID sql.NullString
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&teamID,
		&proj.OwnerID,
		&proj.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if teamID.Valid {
		proj.TeamID = &teamID.String
	}
	return &proj, nil
}

// ProjectOf resolves a project id to itself, failing when the project does
// not exist. It lets column ordering resolve its groups like task ordering.
func (r *ProjectRepository) ProjectOf(ctx context.Context, projectID string) (string, error) {
	var exists bool
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)`, projectID).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("project %s: %w", projectID, repository.ErrNotFound)
	}
	return projectID, nil
}

// Update saves a project's name, description and team
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET name = ?, description = ?, team_id = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query, proj.Name, proj.Description, proj.TeamID, proj.ID)
	if err != nil {
		return translateError(fmt.Errorf("failed to update project: %w", err))
	}
	return requireAffected(result)
}

// Delete removes a project; columns, tasks and memberships cascade
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return translateError(fmt.Errorf("failed to delete project: %w", err))
	}
	return requireAffected(result)
}

// ListForUser returns the projects a user can see, directly or through a team,
// with the user's effective role.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.team_id,
			p.created_at,
			m.role,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count
		FROM projects p
		JOIN (
			SELECT project_id, role FROM project_members WHERE user_id = ?
			UNION ALL
			SELECT p2.id AS project_id, tm.role
			FROM projects p2
			JOIN team_members tm ON tm.team_id = p2.team_id
			WHERE tm.user_id = ?
		) m ON m.project_id = p.id
		ORDER BY p.created_at DESC, p.id
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	summaries := []project.ProjectSummary{}
	index := make(map[string]int)
	for rows.Next() {
		var summary project.ProjectSummary
		var teamID sql.NullString
		var role string
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&teamID,
			&summary.CreatedAt,
			&role,
			&summary.TaskCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		if teamID.Valid {
			summary.TeamID = &teamID.String
		}
		summary.Role = access.Normalize(role)

		// A user in both the project and its team appears twice.
		if i, seen := index[summary.ID]; seen {
			summaries[i].Role = access.Highest(summaries[i].Role, summary.Role)
			continue
		}
		index[summary.ID] = len(summaries)
		summaries = append(summaries, summary)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return summaries, nil
}
