package session

import (
	"context"

	"github.com/rpggio/planboard/internal/domain/user"
)

// Store persists sessions by token hash. Lookup returns
// repository.ErrNotFound for missing or expired sessions.
type Store interface {
	Save(ctx context.Context, sess *Session) error
	Lookup(ctx context.Context, tokenHash string) (*Session, error)
	Revoke(ctx context.Context, tokenHash string) error
}

// KeyStore resolves API key hashes to users.
type KeyStore interface {
	LookupAPIKey(ctx context.Context, keyHash string) (string, error)
}

// Authenticator checks user credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}
