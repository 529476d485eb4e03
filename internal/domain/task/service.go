package task

import (
	"context"
	"encoding/json"
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

// Service handles task operations.
type Service struct {
	repo     Repository
	search   SearchRepository
	columns  ColumnLookup
	orderer  Orderer
	guard    Authorizer
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewService creates a new task service. activity may be nil.
func NewService(repo Repository, search SearchRepository, columns ColumnLookup, orderer Orderer, guard Authorizer, activity ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:     repo,
		search:   search,
		columns:  columns,
		orderer:  orderer,
		guard:    guard,
		activity: activity,
		logger:   logger,
	}
}

// CreateRequest defines task creation inputs.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Create appends a new task to the end of a column.
func (s *Service) Create(ctx context.Context, actor, columnID string, req CreateRequest) (*Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	projectID, err := s.projectOf(ctx, columnID)
	if err != nil {
		return nil, err
	}
	assignee := normalizeAssignee(req.AssigneeID)
	if err := s.checkAssignee(ctx, projectID, assignee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		ColumnID:    columnID,
		Title:       title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  assignee,
		DueDate:     utc(req.DueDate),
		CreatedBy:   actor,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	position, err := s.orderer.Append(ctx, actor, columnID, func(ctx context.Context, position int) error {
		t.Position = position
		return s.repo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	t.Position = position

	s.record(ctx, t, actor, activity.TypeTaskCreated, "created "+t.Title, nil)
	return t, nil
}

// Get fetches a task the actor can read.
func (s *Service) Get(ctx context.Context, actor, id string) (*Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, t.ProjectID, access.ActionRead); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateRequest defines task update inputs. Nil fields are unchanged. An empty
// AssigneeID unassigns; ClearDueDate removes the due date.
type UpdateRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	AssigneeID   *string    `json:"assignee_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
}

// Update changes a task's content. Use Move to change its column or position.
func (s *Service) Update(ctx context.Context, actor, id string, req UpdateRequest) (*Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, t.ProjectID, access.ActionWrite); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *req.Priority)
		}
		t.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		assignee := normalizeAssignee(req.AssigneeID)
		if err := s.checkAssignee(ctx, t.ProjectID, assignee); err != nil {
			return nil, err
		}
		t.AssigneeID = assignee
	}
	switch {
	case req.ClearDueDate:
		t.DueDate = nil
	case req.DueDate != nil:
		t.DueDate = utc(req.DueDate)
	}
	t.ModifiedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.record(ctx, t, actor, activity.TypeTaskUpdated, "updated "+t.Title, nil)
	return t, nil
}

// Delete removes a task and closes the gap in its column.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orderer.Remove(ctx, actor, id); err != nil {
		return err
	}
	s.record(ctx, t, actor, activity.TypeTaskDeleted, "deleted "+t.Title, nil)
	return nil
}

// Reorder sets the order of every task in a column.
func (s *Service) Reorder(ctx context.Context, actor, columnID string, orderedIDs []string) error {
	projectID, err := s.projectOf(ctx, columnID)
	if err != nil {
		return err
	}
	if err := s.orderer.Reorder(ctx, actor, columnID, orderedIDs); err != nil {
		return err
	}
	if s.activity != nil {
		s.activity.Record(ctx, &activity.Entry{
			ProjectID: projectID,
			ActorID:   actor,
			ColumnID:  &columnID,
			Type:      activity.TypeTasksReordered,
			Summary:   fmt.Sprintf("reordered %d tasks", len(orderedIDs)),
		})
	}
	return nil
}

// Move places a task at index within a column of the same project.
func (s *Service) Move(ctx context.Context, actor, id, targetColumnID string, index int) (*Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	targetProject, err := s.projectOf(ctx, targetColumnID)
	if err != nil {
		return nil, err
	}
	if targetProject != t.ProjectID {
		return nil, fmt.Errorf("%w: tasks cannot move between projects", ErrInvalidInput)
	}

	from := t.ColumnID
	placement, err := s.orderer.Move(ctx, actor, id, targetColumnID, index)
	if err != nil {
		return nil, err
	}
	t.ColumnID = placement.ParentKey
	t.Position = placement.Position

	s.record(ctx, t, actor, activity.TypeTaskMoved, "moved "+t.Title, map[string]any{
		"from_column": from,
		"to_column":   placement.ParentKey,
		"position":    placement.Position,
	})
	return t, nil
}

// ListColumn returns a column's tasks in position order.
func (s *Service) ListColumn(ctx context.Context, actor, columnID string) ([]Task, error) {
	projectID, err := s.projectOf(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, projectID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListByColumn(ctx, columnID)
}

// Search runs a full-text query over a project's task titles and descriptions.
func (s *Service) Search(ctx context.Context, actor, projectID, query string, opts SearchOptions) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if err := s.guard.Authorize(ctx, actor, projectID, access.ActionRead); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	results, err := s.search.Search(ctx, projectID, query, opts)
	if err != nil {
		return nil, fmt.Errorf("searching tasks: %w", err)
	}
	return results, nil
}

func (s *Service) load(ctx context.Context, id string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

func (s *Service) projectOf(ctx context.Context, columnID string) (string, error) {
	projectID, err := s.columns.ProjectOf(ctx, columnID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrColumnNotFound
		}
		return "", fmt.Errorf("resolving column: %w", err)
	}
	return projectID, nil
}

// checkAssignee requires assignees to be able to read the project.
func (s *Service) checkAssignee(ctx context.Context, projectID string, assignee *string) error {
	if assignee == nil {
		return nil
	}
	ok, err := s.guard.Allowed(ctx, *assignee, projectID, access.ActionRead)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: assignee %s is not a project member", ErrInvalidInput, *assignee)
	}
	return nil
}

func (s *Service) record(ctx context.Context, t *Task, actor string, typ activity.Type, summary string, details map[string]any) {
	if s.activity == nil {
		return
	}
	entry := &activity.Entry{
		ProjectID: t.ProjectID,
		ActorID:   actor,
		TaskID:    &t.ID,
		ColumnID:  &t.ColumnID,
		Type:      typ,
		Summary:   summary,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	s.activity.Record(ctx, entry)
}

func normalizeAssignee(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
