// Package ordering maintains a dense, 0-based total order over sibling records
// that share a parent key, such as the tasks of a Kanban column.
//
// After every committed operation the members of a group hold exactly the
// positions 0..n-1. The Manager is the only writer of positions and parent
// keys; it checks the Guard before any mutation and runs every
// read-modify-write cycle inside a single Store transaction.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/rpggio/planboard/internal/repository"
)

// DefaultTimeout bounds a single ordering operation.
const DefaultTimeout = 5 * time.Second

// Manager applies reorder, move, append and remove operations to a Store.
type Manager struct {
	store   Store
	guard   Guard
	logger  *slog.Logger
	timeout time.Duration
	name    string
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithName labels the manager's log lines, e.g. "tasks" or "columns".
func WithName(name string) Option {
	return func(m *Manager) {
		m.name = name
	}
}

// NewManager creates a Manager. store and guard are required.
func NewManager(store Store, guard Guard, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		store:   store,
		guard:   guard,
		logger:  logger,
		timeout: DefaultTimeout,
		name:    "records",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reorder replaces the order of parentKey's members with orderedIDs, which must
// name every current member exactly once.
func (m *Manager) Reorder(ctx context.Context, actor, parentKey string, orderedIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.authorize(ctx, actor, parentKey); err != nil {
		return m.fail(ctx, "reorder", err, "actor", actor, "parent_key", parentKey)
	}

	err := m.store.InTx(ctx, func(ctx context.Context) error {
		if err := m.ensureGroup(ctx, parentKey); err != nil {
			return err
		}
		current, err := m.store.ReadGroup(ctx, parentKey)
		if err != nil {
			return err
		}
		if err := validateOrder(current, orderedIDs); err != nil {
			return err
		}
		if len(orderedIDs) == 0 {
			return nil
		}
		return m.store.WritePositions(ctx, parentKey, renumber(orderedIDs))
	})
	if err != nil {
		return m.fail(ctx, "reorder", err, "actor", actor, "parent_key", parentKey)
	}

	m.logger.DebugContext(ctx, "group reordered", "manager", m.name, "actor", actor, "parent_key", parentKey, "size", len(orderedIDs))
	return nil
}

// Move relocates id to targetIndex within targetParentKey, compacting its old
// group. targetIndex is clamped to the target group's bounds.
func (m *Manager) Move(ctx context.Context, actor, id, targetParentKey string, targetIndex int) (Placement, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	source, err := m.store.ParentOf(ctx, id)
	if err != nil {
		return Placement{}, m.fail(ctx, "move", err, "actor", actor, "id", id)
	}
	if err := m.authorize(ctx, actor, source); err != nil {
		return Placement{}, m.fail(ctx, "move", err, "actor", actor, "id", id, "parent_key", source)
	}
	if targetParentKey != source {
		if err := m.authorize(ctx, actor, targetParentKey); err != nil {
			return Placement{}, m.fail(ctx, "move", err, "actor", actor, "id", id, "parent_key", targetParentKey)
		}
	}

	var placement Placement
	err = m.store.InTx(ctx, func(ctx context.Context) error {
		if err := m.ensureParent(ctx, id, source); err != nil {
			return err
		}
		if targetParentKey != source {
			if err := m.ensureGroup(ctx, targetParentKey); err != nil {
				return err
			}
		}

		sourceGroup, err := m.store.ReadGroup(ctx, source)
		if err != nil {
			return err
		}
		remaining := slices.DeleteFunc(idsOf(sourceGroup), func(member string) bool {
			return member == id
		})

		dest := remaining
		if targetParentKey != source {
			if err := m.store.WritePositions(ctx, source, renumber(remaining)); err != nil {
				return err
			}
			targetGroup, err := m.store.ReadGroup(ctx, targetParentKey)
			if err != nil {
				return err
			}
			dest = idsOf(targetGroup)
		}

		index := clamp(targetIndex, len(dest))
		dest = slices.Insert(dest, index, id)
		if err := m.store.WritePositions(ctx, targetParentKey, renumber(dest)); err != nil {
			return err
		}
		placement = Placement{ParentKey: targetParentKey, Position: index}
		return nil
	})
	if err != nil {
		return Placement{}, m.fail(ctx, "move", err, "actor", actor, "id", id, "parent_key", targetParentKey)
	}

	m.logger.DebugContext(ctx, "record moved", "manager", m.name, "actor", actor, "id", id,
		"from", source, "to", placement.ParentKey, "position", placement.Position)
	return placement, nil
}

// Append places a new record at the end of parentKey. insert is called inside
// the transaction with the assigned position and must create the record using
// the context it receives.
func (m *Manager) Append(ctx context.Context, actor, parentKey string, insert func(ctx context.Context, position int) error) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.authorize(ctx, actor, parentKey); err != nil {
		return 0, m.fail(ctx, "append", err, "actor", actor, "parent_key", parentKey)
	}

	var position int
	err := m.store.InTx(ctx, func(ctx context.Context) error {
		if err := m.ensureGroup(ctx, parentKey); err != nil {
			return err
		}
		group, err := m.store.ReadGroup(ctx, parentKey)
		if err != nil {
			return err
		}
		position = len(group)
		return insert(ctx, position)
	})
	if err != nil {
		return 0, m.fail(ctx, "append", err, "actor", actor, "parent_key", parentKey)
	}
	return position, nil
}

// Remove deletes id and compacts the positions of its former group. When ctx
// carries a Store transaction the removal joins it.
func (m *Manager) Remove(ctx context.Context, actor, id string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	parent, err := m.store.ParentOf(ctx, id)
	if err != nil {
		return m.fail(ctx, "remove", err, "actor", actor, "id", id)
	}
	if err := m.authorize(ctx, actor, parent); err != nil {
		return m.fail(ctx, "remove", err, "actor", actor, "id", id, "parent_key", parent)
	}

	err = m.store.InTx(ctx, func(ctx context.Context) error {
		if err := m.ensureParent(ctx, id, parent); err != nil {
			return err
		}
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
		group, err := m.store.ReadGroup(ctx, parent)
		if err != nil {
			return err
		}
		return m.store.WritePositions(ctx, parent, renumber(idsOf(group)))
	})
	if err != nil {
		return m.fail(ctx, "remove", err, "actor", actor, "id", id, "parent_key", parent)
	}

	m.logger.DebugContext(ctx, "record removed", "manager", m.name, "actor", actor, "id", id, "parent_key", parent)
	return nil
}

// Group returns the members of parentKey in order without authorization.
func (m *Manager) Group(ctx context.Context, parentKey string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var group []Entry
	err := m.store.InTx(ctx, func(ctx context.Context) error {
		if err := m.ensureGroup(ctx, parentKey); err != nil {
			return err
		}
		var err error
		group, err = m.store.ReadGroup(ctx, parentKey)
		return err
	})
	if err != nil {
		return nil, m.translate(ctx, err)
	}
	return group, nil
}

func (m *Manager) authorize(ctx context.Context, actor, parentKey string) error {
	ok, err := m.guard.CanMutate(ctx, actor, parentKey)
	if err != nil {
		return fmt.Errorf("checking access to %s: %w", parentKey, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s may not modify %s", ErrPermissionDenied, actor, parentKey)
	}
	return nil
}

func (m *Manager) ensureGroup(ctx context.Context, parentKey string) error {
	ok, err := m.store.GroupExists(ctx, parentKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: group %s", ErrNotFound, parentKey)
	}
	return nil
}

// ensureParent re-reads id's parent inside the transaction. A change since
// authorization means a concurrent move won the race.
func (m *Manager) ensureParent(ctx context.Context, id, expected string) error {
	current, err := m.store.ParentOf(ctx, id)
	if err != nil {
		return err
	}
	if current != expected {
		return fmt.Errorf("%w: %s moved from %s to %s", ErrConflict, id, expected, current)
	}
	return nil
}

func (m *Manager) translate(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidOrderSet),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrInvariantViolation):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrConflict) && errors.Is(ctx.Err(), context.DeadlineExceeded):
		// Lock waits are bounded by the operation deadline.
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repository.ErrConstraintViolation):
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	default:
		return err
	}
}

// fail translates err and logs it at a level matching its class.
func (m *Manager) fail(ctx context.Context, op string, err error, attrs ...any) error {
	err = m.translate(ctx, err)
	attrs = append([]any{"manager", m.name, "op", op, "error", err}, attrs...)

	switch {
	case errors.Is(err, ErrInvariantViolation):
		m.logger.ErrorContext(ctx, "position invariant violated", attrs...)
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrConflict):
		m.logger.WarnContext(ctx, "ordering contention", attrs...)
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrInvalidOrderSet),
		errors.Is(err, ErrNotFound):
		m.logger.InfoContext(ctx, "ordering request rejected", attrs...)
	default:
		m.logger.ErrorContext(ctx, "ordering failed", attrs...)
	}
	return err
}
