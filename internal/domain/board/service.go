package board

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
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/repository"
)

// Service handles columns and the board view.
type Service struct {
	repo     Repository
	tasks    TaskLister
	orderer  Orderer
	guard    Authorizer
	tx       Transactor
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewService creates a new board service. activity may be nil.
func NewService(repo Repository, tasks TaskLister, orderer Orderer, guard Authorizer, tx Transactor, activity ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:     repo,
		tasks:    tasks,
		orderer:  orderer,
		guard:    guard,
		tx:       tx,
		activity: activity,
		logger:   logger,
	}
}

// CreateColumnRequest defines column creation inputs.
type CreateColumnRequest struct {
	Name     string `json:"name"`
	WIPLimit int    `json:"wip_limit"`
}

// CreateColumn appends a column to the project's board.
func (s *Service) CreateColumn(ctx context.Context, actor, projectID string, req CreateColumnRequest) (*Column, error) {
	col, err := s.createColumn(ctx, actor, projectID, req)
	if err != nil {
		return nil, err
	}
	s.record(ctx, col, actor, activity.TypeColumnCreated, "created column "+col.Name)
	return col, nil
}

// SeedColumns appends columns named names, in order. It joins an enclosing
// transaction.
func (s *Service) SeedColumns(ctx context.Context, actor, projectID string, names []string) error {
	for _, name := range names {
		if _, err := s.createColumn(ctx, actor, projectID, CreateColumnRequest{Name: name}); err != nil {
			return fmt.Errorf("seeding column %q: %w", name, err)
		}
	}
	return nil
}

func (s *Service) createColumn(ctx context.Context, actor, projectID string, req CreateColumnRequest) (*Column, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.WIPLimit < 0 {
		return nil, fmt.Errorf("%w: wip_limit cannot be negative", ErrInvalidInput)
	}

	col := &Column{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
		WIPLimit:  req.WIPLimit,
		CreatedAt: time.Now().UTC(),
	}
	position, err := s.orderer.Append(ctx, actor, projectID, func(ctx context.Context, position int) error {
		col.Position = position
		return s.repo.Create(ctx, col)
	})
	if err != nil {
		return nil, err
	}
	col.Position = position
	return col, nil
}

// GetColumn fetches a column the actor can read.
func (s *Service) GetColumn(ctx context.Context, actor, id string) (*Column, error) {
	col, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, col.ProjectID, access.ActionRead); err != nil {
		return nil, err
	}
	return col, nil
}

// UpdateColumnRequest defines column update inputs. Nil fields are unchanged.
type UpdateColumnRequest struct {
	Name     *string `json:"name,omitempty"`
	WIPLimit *int    `json:"wip_limit,omitempty"`
}

// UpdateColumn renames a column or changes its WIP limit.
func (s *Service) UpdateColumn(ctx context.Context, actor, id string, req UpdateColumnRequest) (*Column, error) {
	col, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, col.ProjectID, access.ActionWrite); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		col.Name = name
	}
	if req.WIPLimit != nil {
		if *req.WIPLimit < 0 {
			return nil, fmt.Errorf("%w: wip_limit cannot be negative", ErrInvalidInput)
		}
		col.WIPLimit = *req.WIPLimit
	}

	if err := s.repo.Update(ctx, col); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("updating column: %w", err)
	}
	s.record(ctx, col, actor, activity.TypeColumnUpdated, "updated column "+col.Name)
	return col, nil
}

// DeleteColumn removes an empty column and closes the gap in the board.
func (s *Service) DeleteColumn(ctx context.Context, actor, id string) error {
	col, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, actor, col.ProjectID, access.ActionWrite); err != nil {
		return err
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		count, err := s.repo.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d tasks remain", ErrColumnNotEmpty, count)
		}
		return s.orderer.Remove(ctx, actor, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, col, actor, activity.TypeColumnDeleted, "deleted column "+col.Name)
	return nil
}

// ReorderColumns sets the order of every column on the board.
func (s *Service) ReorderColumns(ctx context.Context, actor, projectID string, orderedIDs []string) error {
	if err := s.orderer.Reorder(ctx, actor, projectID, orderedIDs); err != nil {
		return err
	}
	if s.activity != nil {
		s.activity.Record(ctx, &activity.Entry{
			ProjectID: projectID,
			ActorID:   actor,
			Type:      activity.TypeColumnsReordered,
			Summary:   fmt.Sprintf("reordered %d columns", len(orderedIDs)),
		})
	}
	return nil
}

// MoveColumn places a column at index on its own board.
func (s *Service) MoveColumn(ctx context.Context, actor, id string, index int) (*Column, error) {
	col, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	placement, err := s.orderer.Move(ctx, actor, id, col.ProjectID, index)
	if err != nil {
		return nil, err
	}
	col.Position = placement.Position
	s.record(ctx, col, actor, activity.TypeColumnMoved, fmt.Sprintf("moved column %s to %d", col.Name, col.Position))
	return col, nil
}

// Board returns the project's columns with their tasks, read in one
// transaction.
func (s *Service) Board(ctx context.Context, actor, projectID string) (*Board, error) {
	if err := s.guard.Authorize(ctx, actor, projectID, access.ActionRead); err != nil {
		return nil, err
	}

	var (
		columns []Column
		tasks   []task.Task
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if columns, err = s.repo.ListByProject(ctx, projectID); err != nil {
			return err
		}
		tasks, err = s.tasks.ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}

	byColumn := make(map[string][]task.Task, len(columns))
	for _, t := range tasks {
		byColumn[t.ColumnID] = append(byColumn[t.ColumnID], t)
	}

	b := &Board{ProjectID: projectID, Columns: make([]ColumnView, 0, len(columns))}
	for _, col := range columns {
		colTasks := byColumn[col.ID]
		if colTasks == nil {
			colTasks = []task.Task{}
		}
		b.Columns = append(b.Columns, ColumnView{
			Column:    col,
			Tasks:     colTasks,
			OverLimit: col.OverLimit(len(colTasks)),
		})
	}
	return b, nil
}

func (s *Service) load(ctx context.Context, id string) (*Column, error) {
	col, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("getting column: %w", err)
	}
	return col, nil
}

func (s *Service) record(ctx context.Context, col *Column, actor string, typ activity.Type, summary string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, &activity.Entry{
		ProjectID: col.ProjectID,
		ActorID:   actor,
		ColumnID:  &col.ID,
		Type:      typ,
		Summary:   summary,
	})
}
