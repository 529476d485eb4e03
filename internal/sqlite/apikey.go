package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/planboard/internal/repository"
)

// APIKeyRepository stores hashed API keys for service accounts
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// CreateAPIKey stores a key hash for a user
func (r *APIKeyRepository) CreateAPIKey(ctx context.Context, keyHash, userID, description string) error {
	query := `
		INSERT INTO api_keys (key_hash, user_id, created_at, description)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, keyHash, userID, time.Now().UTC(), description)
	if err != nil {
		return translateError(fmt.Errorf("failed to create api key: %w", err))
	}
	return nil
}

// LookupAPIKey returns the user owning a key hash and records its use
func (r *APIKeyRepository) LookupAPIKey(ctx context.Context, keyHash string) (string, error) {
	var userID string
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT user_id FROM api_keys WHERE key_hash = ?`, keyHash,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up api key: %w", err)
	}

	if _, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), keyHash,
	); err != nil {
		return "", translateError(fmt.Errorf("failed to touch api key: %w", err))
	}
	return userID, nil
}
