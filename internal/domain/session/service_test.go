package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/rpggio/planboard/internal/domain/user"
	"github.com/rpggio/planboard/internal/repository"
	"github.com/rpggio/planboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionService_LoginResolveLogout(t *testing.T) {
	ctx := context.Background()
	store := &mocks.SessionStore{}
	users := &mocks.Authenticator{}
	users.On("Authenticate", ctx, "ada@example.com", "secret123").Return(&user.User{ID: "u1"}, nil)

	var saved *session.Session
	store.On("Save", ctx, mock.AnythingOfType("*session.Session")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*session.Session)
	}).Return(nil)

	svc := session.NewService(store, nil, users, time.Hour, nil)
	login, err := svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "u1", login.UserID)
	require.Equal(t, session.HashToken(login.Token), saved.TokenHash)
	require.NotEqual(t, login.Token, saved.TokenHash)
	require.WithinDuration(t, time.Now().Add(time.Hour), login.ExpiresAt, time.Minute)

	store.On("Lookup", ctx, saved.TokenHash).Return(saved, nil)
	userID, err := svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)

	store.On("Revoke", ctx, saved.TokenHash).Return(nil)
	require.NoError(t, svc.Logout(ctx, login.Token))
	store.AssertExpectations(t)
}

func TestSessionService_LoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	users := &mocks.Authenticator{}
	users.On("Authenticate", ctx, "ada@example.com", "nope").Return((*user.User)(nil), user.ErrInvalidCredentials)

	svc := session.NewService(&mocks.SessionStore{}, nil, users, time.Hour, nil)
	_, err := svc.Login(ctx, "ada@example.com", "nope")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSessionService_ResolveExpiredFallsBackToAPIKey(t *testing.T) {
	ctx := context.Background()
	store := &mocks.SessionStore{}
	keys := &mocks.KeyStore{}

	expired := &session.Session{UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}
	store.On("Lookup", ctx, session.HashToken("old")).Return(expired, nil)
	keys.On("LookupAPIKey", ctx, session.HashToken("old")).Return("", repository.ErrNotFound)

	store.On("Lookup", ctx, session.HashToken("service-key")).Return((*session.Session)(nil), repository.ErrNotFound)
	keys.On("LookupAPIKey", ctx, session.HashToken("service-key")).Return("bot", nil)

	svc := session.NewService(store, keys, nil, time.Hour, nil)

	_, err := svc.Resolve(ctx, "old")
	require.ErrorIs(t, err, session.ErrSessionNotFound)

	userID, err := svc.Resolve(ctx, "service-key")
	require.NoError(t, err)
	require.Equal(t, "bot", userID)

	_, err = svc.Resolve(ctx, "")
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestHashToken(t *testing.T) {
	require.Equal(t, session.HashToken("abc"), session.HashToken("abc"))
	require.NotEqual(t, session.HashToken("abc"), session.HashToken("abd"))
	require.Len(t, session.HashToken("abc"), 64)
	require.NotEqual(t, session.NewToken(), session.NewToken())
}
