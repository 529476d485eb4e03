package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/planboard/internal/repository"
)

// DefaultTTL is the lifetime of a login session.
const DefaultTTL = 24 * time.Hour

// Service issues, resolves and revokes bearer tokens.
type Service struct {
	store  Store
	keys   KeyStore
	users  Authenticator
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new session service. keys may be nil to disable API
// keys.
func NewService(store Store, keys KeyStore, users Authenticator, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:  store,
		keys:   keys,
		users:  users,
		logger: logger,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Login, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	token := NewToken()
	sess := &Session{
		TokenHash: HashToken(token),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return &Login{Token: token, UserID: u.ID, ExpiresAt: sess.ExpiresAt}, nil
}

// Resolve returns the user behind a bearer token: a live session first, then
// an API key.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}
	hash := HashToken(token)

	sess, err := s.store.Lookup(ctx, hash)
	switch {
	case err == nil && !sess.Expired(s.now()):
		return sess.UserID, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return "", fmt.Errorf("looking up session: %w", err)
	}

	if s.keys == nil {
		return "", ErrSessionNotFound
	}
	userID, err := s.keys.LookupAPIKey(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("looking up api key: %w", err)
	}
	return userID, nil
}

// Logout revokes a token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.store.Revoke(ctx, HashToken(token)); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
