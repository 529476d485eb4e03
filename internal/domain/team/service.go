package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/repository"
)

// Service handles team operations.
type Service struct {
	repo   Repository
	tx     Transactor
	logger *slog.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, tx Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, tx: tx, logger: logger}
}

// CreateRequest defines team creation inputs.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create creates a team with the actor as its admin.
func (s *Service) Create(ctx context.Context, actor string, req CreateRequest) (*Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	t := &Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
	}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}
		return s.repo.AddMember(ctx, &Member{TeamID: t.ID, UserID: actor, Role: access.RoleAdmin, AddedAt: now})
	})
	if err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", t.ID, "actor", actor)
	return t, nil
}

// Get returns a team the actor belongs to.
func (s *Service) Get(ctx context.Context, actor, id string) (*Team, error) {
	if _, err := s.require(ctx, actor, id, access.ActionRead); err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("getting team: %w", err)
	}
	return t, nil
}

// List returns the actor's teams.
func (s *Service) List(ctx context.Context, actor string) ([]Team, error) {
	return s.repo.ListForUser(ctx, actor)
}

// Delete removes a team. Its projects stay, without a team.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	if _, err := s.require(ctx, actor, id, access.ActionAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("deleting team: %w", err)
	}
	s.logger.InfoContext(ctx, "team deleted", "team_id", id, "actor", actor)
	return nil
}

// AddMember adds or updates a member. Requires team admin.
func (s *Service) AddMember(ctx context.Context, actor, teamID, userID string, role access.Role) (*Member, error) {
	if userID == "" || !access.Valid(role) {
		return nil, fmt.Errorf("%w: user_id and a valid role are required", ErrInvalidInput)
	}
	if _, err := s.require(ctx, actor, teamID, access.ActionAdmin); err != nil {
		return nil, err
	}

	m := &Member{TeamID: teamID, UserID: userID, Role: role, AddedAt: time.Now().UTC()}
	if err := s.repo.AddMember(ctx, m); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrInvalidInput, userID)
		}
		return nil, fmt.Errorf("adding team member: %w", err)
	}
	return m, nil
}

// RemoveMember removes a member. Requires team admin.
func (s *Service) RemoveMember(ctx context.Context, actor, teamID, userID string) error {
	if _, err := s.require(ctx, actor, teamID, access.ActionAdmin); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("removing team member: %w", err)
	}
	return nil
}

// Members lists a team's members.
func (s *Service) Members(ctx context.Context, actor, teamID string) ([]Member, error) {
	if _, err := s.require(ctx, actor, teamID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, teamID)
}

// Role returns the actor's role in the team, or "" for non-members.
func (s *Service) Role(ctx context.Context, actor, teamID string) (access.Role, error) {
	return s.repo.TeamRole(ctx, teamID, actor)
}

// require hides teams from non-members and enforces action for members.
func (s *Service) require(ctx context.Context, actor, teamID string, action access.Action) (access.Role, error) {
	role, err := s.repo.TeamRole(ctx, teamID, actor)
	if err != nil {
		return "", fmt.Errorf("loading team role: %w", err)
	}
	if role == "" {
		return "", ErrTeamNotFound
	}
	if !access.Can(role, action) {
		return "", fmt.Errorf("%w: %s on team %s", access.ErrForbidden, action, teamID)
	}
	return role, nil
}
