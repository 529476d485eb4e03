package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu          sync.RWMutex
	broadcaster []Broadcaster
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Notify registers b to receive every logged entry.
func (s *Service) Notify(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = append(s.broadcaster, b)
}

// LogActivity stores an entry, stamping the current time if missing, and
// publishes it.
func (s *Service) LogActivity(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.ProjectID == "" || entry.Type == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.broadcaster {
		b.Publish(*entry)
	}
	return nil
}

// Record logs an entry on behalf of a mutation that already committed. Failures
// are logged, not returned.
func (s *Service) Record(ctx context.Context, entry *Entry) {
	if err := s.LogActivity(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "failed to record activity", "type", entry.Type, "project_id", entry.ProjectID, "error", err)
	}
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	return s.repo.List(ctx, opts)
}
