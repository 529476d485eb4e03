package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type actorKey struct{}

// ActorResolver resolves a user ID from a bearer token.
type ActorResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// WithActor returns a context carrying the acting user's ID.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user's ID from context, if present.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}

// BearerToken extracts the bearer token from the Authorization header. The
// access_token query parameter is accepted for websocket clients, which cannot
// set headers.
func BearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return r.URL.Query().Get("access_token")
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver ActorResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeError(w, r, logger, ErrUnauthorized)
				return
			}

			actor, err := resolver.Resolve(r.Context(), token)
			if err != nil || actor == "" {
				if err == nil {
					err = ErrUnauthorized
				}
				writeError(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// StaticActorMiddleware acts as a fixed user. It serves local setups with
// authentication disabled.
func StaticActorMiddleware(actor string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func actorOf(r *http.Request) string {
	actor, _ := ActorFromContext(r.Context())
	return actor
}
