package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/task"
)

// Service builds project dashboards.
type Service struct {
	repo   Repository
	guard  Authorizer
	tx     Transactor
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new report service.
func NewService(repo Repository, guard Authorizer, tx Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:   repo,
		guard:  guard,
		tx:     tx,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Generate builds a consistent snapshot report for a project.
func (s *Service) Generate(ctx context.Context, actor, projectID string) (*Report, error) {
	if err := s.guard.Authorize(ctx, actor, projectID, access.ActionRead); err != nil {
		return nil, err
	}

	r := &Report{ProjectID: projectID, GeneratedAt: s.now()}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if r.ByColumn, err = s.repo.ColumnCounts(ctx, projectID); err != nil {
			return fmt.Errorf("column counts: %w", err)
		}
		if r.ByPriority, err = s.repo.PriorityCounts(ctx, projectID); err != nil {
			return fmt.Errorf("priority counts: %w", err)
		}
		if r.ByAssignee, err = s.repo.AssigneeCounts(ctx, projectID); err != nil {
			return fmt.Errorf("assignee counts: %w", err)
		}
		if r.Unassigned, err = s.repo.UnassignedCount(ctx, projectID); err != nil {
			return fmt.Errorf("unassigned count: %w", err)
		}
		if r.OverdueTasks, err = s.repo.OverdueTasks(ctx, projectID, r.GeneratedAt); err != nil {
			return fmt.Errorf("overdue tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	for i := range r.ByColumn {
		col := &r.ByColumn[i]
		col.OverLimit = col.WIPLimit > 0 && col.Count > col.WIPLimit
		r.TotalTasks += col.Count
	}
	if r.ByPriority == nil {
		r.ByPriority = map[task.Priority]int{}
	}
	for _, p := range task.Priorities {
		if _, ok := r.ByPriority[p]; !ok {
			r.ByPriority[p] = 0
		}
	}
	if r.ByAssignee == nil {
		r.ByAssignee = []AssigneeCount{}
	}
	if r.OverdueTasks == nil {
		r.OverdueTasks = []task.Task{}
	}
	return r, nil
}
