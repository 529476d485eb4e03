package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/repository"
)

// Dependencies wires a Service.
type Dependencies struct {
	Projects Repository
	Members  MemberRepository
	Teams    TeamRoles
	Guard    Authorizer
	Board    BoardSeeder
	Tx       Transactor
	Activity ActivityRecorder
}

// Service handles project operations.
type Service struct {
	deps   Dependencies
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(deps Dependencies, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{deps: deps, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TeamID      *string `json:"team_id,omitempty"`
}

// Create creates a project owned by actor, seeded with DefaultColumns.
func (s *Service) Create(ctx context.Context, actor string, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	teamID := normalizeTeam(req.TeamID)
	if teamID != nil {
		if err := s.requireTeamAdmin(ctx, actor, *teamID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	proj := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		TeamID:      teamID,
		OwnerID:     actor,
		CreatedAt:   now,
	}
	err := s.deps.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.deps.Projects.Create(ctx, proj); err != nil {
			return err
		}
		owner := &Member{ProjectID: proj.ID, UserID: actor, Role: access.RoleAdmin, AddedAt: now}
		if err := s.deps.Members.AddMember(ctx, owner); err != nil {
			return err
		}
		return s.deps.Board.SeedColumns(ctx, actor, proj.ID, DefaultColumns)
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.InfoContext(ctx, "project created", "project_id", proj.ID, "actor", actor)
	s.record(ctx, proj.ID, actor, activity.TypeProjectCreated, "created project "+proj.Name)
	return proj, nil
}

// Get fetches a project the actor can read.
func (s *Service) Get(ctx context.Context, actor, id string) (*Project, error) {
	proj, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Guard.Authorize(ctx, actor, id, access.ActionRead); err != nil {
		return nil, err
	}
	return proj, nil
}

// List returns the projects visible to actor.
func (s *Service) List(ctx context.Context, actor string) ([]ProjectSummary, error) {
	return s.deps.Projects.ListForUser(ctx, actor)
}

// UpdateRequest defines project update inputs. Nil fields are unchanged; an
// empty TeamID detaches the project from its team.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	TeamID      *string `json:"team_id,omitempty"`
}

// Update changes a project's details. Changing the team requires admin.
func (s *Service) Update(ctx context.Context, actor, id string, req UpdateRequest) (*Project, error) {
	proj, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	action := access.ActionWrite
	if req.TeamID != nil {
		action = access.ActionAdmin
	}
	if err := s.deps.Guard.Authorize(ctx, actor, id, action); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		proj.Name = name
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	if req.TeamID != nil {
		proj.TeamID = normalizeTeam(req.TeamID)
		if proj.TeamID != nil {
			if err := s.requireTeamAdmin(ctx, actor, *proj.TeamID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.deps.Projects.Update(ctx, proj); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	s.record(ctx, proj.ID, actor, activity.TypeProjectUpdated, "updated project "+proj.Name)
	return proj, nil
}

// Delete removes a project with its board, tasks and memberships.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.deps.Guard.Authorize(ctx, actor, id, access.ActionAdmin); err != nil {
		return err
	}
	if err := s.deps.Projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.InfoContext(ctx, "project deleted", "project_id", id, "actor", actor)
	return nil
}

// AddMember grants userID a direct role. Requires project admin.
func (s *Service) AddMember(ctx context.Context, actor, projectID, userID string, role access.Role) (*Member, error) {
	if userID == "" || !access.Valid(role) {
		return nil, fmt.Errorf("%w: user_id and a valid role are required", ErrInvalidInput)
	}
	if _, err := s.load(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.deps.Guard.Authorize(ctx, actor, projectID, access.ActionAdmin); err != nil {
		return nil, err
	}

	m := &Member{ProjectID: projectID, UserID: userID, Role: role, AddedAt: time.Now().UTC()}
	if err := s.deps.Members.AddMember(ctx, m); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrInvalidInput, userID)
		}
		return nil, fmt.Errorf("adding member: %w", err)
	}
	s.record(ctx, projectID, actor, activity.TypeMemberAdded, fmt.Sprintf("added %s as %s", userID, role))
	return m, nil
}

// RemoveMember revokes a direct role. The owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, actor, projectID, userID string) error {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.deps.Guard.Authorize(ctx, actor, projectID, access.ActionAdmin); err != nil {
		return err
	}
	if userID == proj.OwnerID {
		return fmt.Errorf("%w: the owner cannot be removed", ErrInvalidInput)
	}
	if err := s.deps.Members.RemoveMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("removing member: %w", err)
	}
	s.record(ctx, projectID, actor, activity.TypeMemberRemoved, "removed "+userID)
	return nil
}

// Members lists direct project members.
func (s *Service) Members(ctx context.Context, actor, projectID string) ([]Member, error) {
	if _, err := s.Get(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.deps.Members.ListMembers(ctx, projectID)
}

func (s *Service) load(ctx context.Context, id string) (*Project, error) {
	proj, err := s.deps.Projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

func (s *Service) requireTeamAdmin(ctx context.Context, actor, teamID string) error {
	role, err := s.deps.Teams.TeamRole(ctx, teamID, actor)
	if err != nil {
		return fmt.Errorf("loading team role: %w", err)
	}
	if !access.Can(role, access.ActionAdmin) {
		return fmt.Errorf("%w: admin on team %s", access.ErrForbidden, teamID)
	}
	return nil
}

func (s *Service) record(ctx context.Context, projectID, actor string, typ activity.Type, summary string) {
	if s.deps.Activity == nil {
		return
	}
	s.deps.Activity.Record(ctx, &activity.Entry{
		ProjectID: projectID,
		ActorID:   actor,
		Type:      typ,
		Summary:   summary,
	})
}

func normalizeTeam(teamID *string) *string {
	if teamID == nil || strings.TrimSpace(*teamID) == "" {
		return nil
	}
	id := strings.TrimSpace(*teamID)
	return &id
}
