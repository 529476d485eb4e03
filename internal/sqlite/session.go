package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/rpggio/planboard/internal/repository"
)

// SessionStore implements session.Store for SQLite
type SessionStore struct {
	db  *DB
	now func() time.Time
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Save stores a session
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.conn(ctx).ExecContext(ctx, query,
		sess.TokenHash,
		sess.UserID,
		sess.CreatedAt.UTC(),
		sess.ExpiresAt.UTC(),
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to save session: %w", err))
	}
	return nil
}

// Lookup retrieves a live session by token hash. Expired sessions are
// reported as not found.
func (s *SessionStore) Lookup(ctx context.Context, tokenHash string) (*session.Session, error) {
	query := `
		SELECT token_hash, user_id, created_at, expires_at
		FROM sessions
		WHERE token_hash = ?
	`

	var sess session.Session
	err := s.db.conn(ctx).QueryRowContext(ctx, query, tokenHash).Scan(
		&sess.TokenHash,
		&sess.UserID,
		&sess.CreatedAt,
		&sess.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	sess.CreatedAt = sess.CreatedAt.UTC()
	sess.ExpiresAt = sess.ExpiresAt.UTC()
	if sess.Expired(s.now().UTC()) {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

// Revoke deletes a session
func (s *SessionStore) Revoke(ctx context.Context, tokenHash string) error {
	result, err := s.db.conn(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return requireAffected(result)
}

// PurgeExpired deletes sessions that expired before now and reports how many
// were removed.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	rows, err := s.db.conn(ctx).QueryContext(ctx, `SELECT token_hash, expires_at FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := s.now().UTC()
	var expired []string
	for rows.Next() {
		var hash string
		var expiresAt time.Time
		if err := rows.Scan(&hash, &expiresAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan session: %w", err)
		}
		if !now.Before(expiresAt) {
			expired = append(expired, hash)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("error iterating sessions: %w", err)
	}
	rows.Close()

	var purged int64
	for _, hash := range expired {
		result, err := s.db.conn(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, hash)
		if err != nil {
			return purged, fmt.Errorf("failed to purge session: %w", err)
		}
		n, _ := result.RowsAffected()
		purged += n
	}
	return purged, nil
}
