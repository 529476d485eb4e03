// Package redisstore keeps login sessions in Redis so that several server
// processes can share them.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/rpggio/planboard/internal/repository"
)

const defaultPrefix = "planboard:session:"

type sessionData struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore implements session.Store on Redis. Keys expire with their
// sessions.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// New connects to the Redis server at redisURL.
func New(ctx context.Context, redisURL string) (*SessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWithClient(client), nil
}

// NewWithClient creates a store from an existing client.
func NewWithClient(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, prefix: defaultPrefix}
}

func (s *SessionStore) key(tokenHash string) string {
	return s.prefix + tokenHash
}

// Save stores a session until it expires.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", repository.ErrInvalidInput)
	}

	data, err := json.Marshal(sessionData{
		UserID:    sess.UserID,
		CreatedAt: sess.CreatedAt.UTC(),
		ExpiresAt: sess.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.TokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Lookup returns the session for a token hash, or repository.ErrNotFound once
// it has expired or been revoked.
func (s *SessionStore) Lookup(ctx context.Context, tokenHash string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, s.key(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session.Session{
		TokenHash: tokenHash,
		UserID:    data.UserID,
		CreatedAt: data.CreatedAt,
		ExpiresAt: data.ExpiresAt,
	}, nil
}

// Revoke deletes a session.
func (s *SessionStore) Revoke(ctx context.Context, tokenHash string) error {
	n, err := s.client.Del(ctx, s.key(tokenHash)).Result()
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ping checks that Redis is reachable.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
