package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/planboard/internal/transport"
)

type contextKey int

const actorKey contextKey = iota

// getActor extracts the acting user's ID from context.
func getActor(ctx context.Context) string {
	v, _ := ctx.Value(actorKey).(string)
	return v
}

// ActorResolver resolves a user ID from a session token or API key.
type ActorResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// anonymousMethod reports whether method may run before the client has
// identified itself.
func anonymousMethod(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

// authMiddleware resolves the bearer token of every request except the
// handshake, and rejects the request when it does not name a user.
func authMiddleware(resolver ActorResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if anonymousMethod(method) {
				return next(ctx, method, req)
			}

			actor, err := authenticate(ctx, resolver, req)
			if err != nil {
				return nil, err
			}
			return next(context.WithValue(ctx, actorKey, actor), method, req)
		}
	}
}

func authenticate(ctx context.Context, resolver ActorResolver, req sdkmcp.Request) (string, error) {
	var extra *sdkmcp.RequestExtra
	if req != nil {
		extra = req.GetExtra()
	}
	if extra == nil || extra.Header == nil {
		return "", fmt.Errorf("%w: missing headers", transport.ErrUnauthorized)
	}

	token := strings.TrimSpace(strings.TrimPrefix(extra.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%w: missing bearer token", transport.ErrUnauthorized)
	}

	actor, err := resolver.Resolve(ctx, token)
	if err != nil || actor == "" {
		return "", fmt.Errorf("%w: invalid bearer token", transport.ErrUnauthorized)
	}
	return actor, nil
}

// noAuthMiddleware runs every request as defaultActor.
func noAuthMiddleware(defaultActor string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(context.WithValue(ctx, actorKey, defaultActor), method, req)
		}
	}
}
