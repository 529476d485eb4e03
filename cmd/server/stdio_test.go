package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const runServerEnv = "PLANBOARD_TEST_RUN_SERVER"

// TestMain lets the test binary act as the server when re-executed by the
// stdio tests.
func TestMain(m *testing.M) {
	if os.Getenv(runServerEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func newStdioSession(t *testing.T, extraEnv ...string) *sdkmcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=^$")
	cmd.Env = append(os.Environ(),
		runServerEnv+"=1",
		"PLANBOARD_CONFIG_PATH=",
		"PLANBOARD_TRANSPORT_MODE=stdio",
		"PLANBOARD_DB_PATH="+filepath.Join(t.TempDir(), "planboard.db"),
		"PLANBOARD_AUTH_DEFAULT_ACTOR=local",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestStdioListsTools(t *testing.T) {
	session := newStdioSession(t)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 8)

	doc, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "planboard://docs/ordering"})
	require.NoError(t, err)
	require.NotEmpty(t, doc.Contents)
}

func TestStdioCallsToolsAsDefaultActor(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "server.log")
	session := newStdioSession(t, "PLANBOARD_LOG_PATH="+logPath, "PLANBOARD_LOG_LEVEL=debug")

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "list_projects",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var body struct {
		Projects []json.RawMessage `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*sdkmcp.TextContent).Text), &body))
	require.Empty(t, body.Projects)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "starting stdio transport")
}
