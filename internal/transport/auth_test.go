package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokenToUser map[string]string
	err         error
}

func (r *testResolver) Resolve(_ context.Context, token string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	userID, ok := r.tokenToUser[token]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return userID, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokenToUser: map[string]string{"token": "u1"}}

	handler := AuthMiddleware(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "u1", actor)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	resolver := &testResolver{tokenToUser: map[string]string{"token": "u1"}}

	handler := AuthMiddleware(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects/p1/events?access_token=token", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		resolver *testResolver
		header   string
	}{
		{"missing token", &testResolver{}, ""},
		{"unknown token", &testResolver{tokenToUser: map[string]string{}}, "Bearer nope"},
		{"resolver failure", &testResolver{err: errors.New("boom")}, "Bearer token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(tt.resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			if tt.resolver.err != nil {
				require.Equal(t, http.StatusInternalServerError, rec.Code)
				return
			}
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var body errorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, "UNAUTHENTICATED", body.Error.Code)
		})
	}
}

func TestStaticActorMiddleware(t *testing.T) {
	handler := StaticActorMiddleware("local")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "local", actorOf(r))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
