package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestTrafficLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := trafficLoggingMiddleware(logger, "inbound")(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return &sdkmcp.CallToolResult{}, nil
	})

	ctx := context.WithValue(context.Background(), actorKey, "u1")
	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "move_task"}}
	_, err := handler(ctx, "tools/call", req)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "mcp request")
	require.Contains(t, out, "mcp response")
	require.Contains(t, out, "tool=move_task")
	require.Contains(t, out, "actor=u1")
}

func TestTrafficLoggingSkipsWhenDebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	called := false
	handler := trafficLoggingMiddleware(logger, "inbound")(func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		called = true
		return nil, nil
	})
	_, err := handler(context.Background(), "ping", nil)
	require.NoError(t, err)
	require.True(t, called)
	require.Empty(t, buf.String())
}

func TestFormatPayloadTruncates(t *testing.T) {
	long := strings.Repeat("x", maxLoggedPayload*2)
	out := formatPayload(map[string]string{"title": long})
	require.Less(t, len(out), maxLoggedPayload+64)
	require.Contains(t, out, "bytes)")

	require.Equal(t, "<nil>", formatPayload(nil))
	require.Equal(t, `{"a":1}`, formatPayload(map[string]int{"a": 1}))
}
