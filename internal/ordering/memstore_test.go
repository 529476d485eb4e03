package ordering_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rpggio/planboard/internal/ordering"
	"github.com/rpggio/planboard/internal/repository"
)

type record struct {
	parent   string
	position int
}

type txKey struct{}

// memStore is an in-memory Store. InTx holds a single lock and rolls back by
// restoring a snapshot, so it is serializable.
type memStore struct {
	mu      sync.Mutex
	groups  map[string]bool
	records map[string]record

	// failWrite, when set, is returned from WritePositions for that group.
	failWrite map[string]error
}

func newMemStore(groups map[string][]string) *memStore {
	s := &memStore{
		groups:    make(map[string]bool),
		records:   make(map[string]record),
		failWrite: make(map[string]error),
	}
	for parent, ids := range groups {
		s.groups[parent] = true
		for i, id := range ids {
			s.records[id] = record{parent: parent, position: i}
		}
	}
	return s
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := maps.Clone(s.records)
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.records = snapshot
		return err
	}
	return nil
}

// locked runs fn under the store lock unless ctx is already inside InTx.
func (s *memStore) locked(ctx context.Context, fn func()) {
	if ctx.Value(txKey{}) == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func (s *memStore) GroupExists(ctx context.Context, parentKey string) (bool, error) {
	var ok bool
	s.locked(ctx, func() { ok = s.groups[parentKey] })
	return ok, nil
}

func (s *memStore) ReadGroup(ctx context.Context, parentKey string) ([]ordering.Entry, error) {
	var entries []ordering.Entry
	s.locked(ctx, func() { entries = s.readGroup(parentKey) })
	return entries, nil
}

func (s *memStore) readGroup(parentKey string) []ordering.Entry {
	var entries []ordering.Entry
	for id, rec := range s.records {
		if rec.parent == parentKey && rec.position >= 0 {
			entries = append(entries, ordering.Entry{ID: id, Position: rec.position})
		}
	}
	slices.SortFunc(entries, func(a, b ordering.Entry) int { return a.Position - b.Position })
	return entries
}

func (s *memStore) ParentOf(ctx context.Context, id string) (string, error) {
	var (
		rec record
		ok  bool
	)
	s.locked(ctx, func() { rec, ok = s.records[id] })
	if !ok {
		return "", fmt.Errorf("record %s: %w", id, repository.ErrNotFound)
	}
	return rec.parent, nil
}

func (s *memStore) WritePositions(ctx context.Context, parentKey string, entries []ordering.Entry) error {
	var err error
	s.locked(ctx, func() { err = s.writePositions(parentKey, entries) })
	return err
}

func (s *memStore) writePositions(parentKey string, entries []ordering.Entry) error {
	if err := s.failWrite[parentKey]; err != nil {
		return err
	}
	for id, rec := range s.records {
		if rec.parent == parentKey && rec.position >= 0 {
			s.records[id] = record{parent: parentKey, position: -1 - rec.position}
		}
	}
	for _, entry := range entries {
		if _, ok := s.records[entry.ID]; !ok {
			return fmt.Errorf("record %s: %w", entry.ID, repository.ErrNotFound)
		}
		s.records[entry.ID] = record{parent: parentKey, position: entry.Position}
	}
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	var ok bool
	s.locked(ctx, func() {
		if _, ok = s.records[id]; ok {
			delete(s.records, id)
		}
	})
	if !ok {
		return fmt.Errorf("record %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *memStore) inserter(id, parent string) func(context.Context, int) error {
	return func(_ context.Context, position int) error {
		s.records[id] = record{parent: parent, position: position}
		return nil
	}
}

// order returns the ids of a group in position order.
func (s *memStore) order(parentKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.readGroup(parentKey)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// dense reports whether every group holds exactly positions 0..n-1.
func (s *memStore) dense() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	byGroup := make(map[string][]int)
	for _, rec := range s.records {
		byGroup[rec.parent] = append(byGroup[rec.parent], rec.position)
	}
	for _, positions := range byGroup {
		slices.Sort(positions)
		for i, p := range positions {
			if p != i {
				return false
			}
		}
	}
	return true
}

type guardFunc func(actor, parentKey string) bool

func (g guardFunc) CanMutate(_ context.Context, actor, parentKey string) (bool, error) {
	return g(actor, parentKey), nil
}

var allowAll = guardFunc(func(string, string) bool { return true })
