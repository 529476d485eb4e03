package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/planboard/internal/ordering"
	"github.com/rpggio/planboard/internal/repository"
)

// PositionTable names an ordered table: rows of Table are grouped by
// ParentColumn, whose values are ids in GroupTable.
type PositionTable struct {
	Table        string
	ParentColumn string
	GroupTable   string
}

var (
	// TaskPositions orders tasks within board columns.
	TaskPositions = PositionTable{Table: "tasks", ParentColumn: "column_id", GroupTable: "board_columns"}
	// ColumnPositions orders board columns within projects.
	ColumnPositions = PositionTable{Table: "board_columns", ParentColumn: "project_id", GroupTable: "projects"}
)

// PositionStore implements ordering.Store over a PositionTable.
type PositionStore struct {
	db *DB
	t  PositionTable
}

var _ ordering.Store = (*PositionStore)(nil)

// NewPositionStore creates a PositionStore.
func NewPositionStore(db *DB, table PositionTable) *PositionStore {
	return &PositionStore{db: db, t: table}
}

// InTx runs fn in a database transaction.
func (s *PositionStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.InTx(ctx, fn)
}

// GroupExists reports whether the parent row exists.
func (s *PositionStore) GroupExists(ctx context.Context, parentKey string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)`, s.t.GroupTable)

	var exists bool
	if err := s.db.conn(ctx).QueryRowContext(ctx, query, parentKey).Scan(&exists); err != nil {
		return false, translateError(fmt.Errorf("failed to check group: %w", err))
	}
	return exists, nil
}

// ReadGroup returns the group's members by ascending position.
func (s *PositionStore) ReadGroup(ctx context.Context, parentKey string) ([]ordering.Entry, error) {
	query := fmt.Sprintf(`
		SELECT id, position
		FROM %s
		WHERE %s = ? AND position >= 0
		ORDER BY position ASC
	`, s.t.Table, s.t.ParentColumn)

	rows, err := s.db.conn(ctx).QueryContext(ctx, query, parentKey)
	if err != nil {
		return nil, translateError(fmt.Errorf("failed to read group: %w", err))
	}
	defer rows.Close()

	var entries []ordering.Entry
	for rows.Next() {
		var entry ordering.Entry
		if err := rows.Scan(&entry.ID, &entry.Position); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(fmt.Errorf("error iterating positions: %w", err))
	}
	return entries, nil
}

// ParentOf returns the group a row belongs to.
func (s *PositionStore) ParentOf(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, s.t.ParentColumn, s.t.Table)

	var parent string
	err := s.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(&parent)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s %s: %w", s.t.Table, id, repository.ErrNotFound)
	}
	if err != nil {
		return "", translateError(fmt.Errorf("failed to get parent: %w", err))
	}
	return parent, nil
}

// WritePositions assigns parentKey and a position to every entry. Current
// members are first parked at negative positions so the unique
// (parent, position) index holds after each statement.
func (s *PositionStore) WritePositions(ctx context.Context, parentKey string, entries []ordering.Entry) error {
	conn := s.db.conn(ctx)

	park := fmt.Sprintf(`UPDATE %s SET position = -1 - position WHERE %s = ? AND position >= 0`,
		s.t.Table, s.t.ParentColumn)
	if _, err := conn.ExecContext(ctx, park, parentKey); err != nil {
		return translateError(fmt.Errorf("failed to park positions: %w", err))
	}

	assign := fmt.Sprintf(`UPDATE %s SET %s = ?, position = ? WHERE id = ?`, s.t.Table, s.t.ParentColumn)
	for _, entry := range entries {
		result, err := conn.ExecContext(ctx, assign, parentKey, entry.Position, entry.ID)
		if err != nil {
			return translateError(fmt.Errorf("failed to write position of %s: %w", entry.ID, err))
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected != 1 {
			return fmt.Errorf("%s %s: %w", s.t.Table, entry.ID, repository.ErrNotFound)
		}
	}
	return nil
}

// Delete removes a row.
func (s *PositionStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.t.Table)

	result, err := s.db.conn(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return translateError(fmt.Errorf("failed to delete %s: %w", s.t.Table, err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", s.t.Table, id, repository.ErrNotFound)
	}
	return nil
}
