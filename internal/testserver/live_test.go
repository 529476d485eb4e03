package testserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/planboard/internal/testserver"
)

func TestEventsStream(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	projectID := createProject(t, ts, alice.Token, "Launch")
	todo := getBoard(t, ts, alice.Token, projectID).Columns[0].ID

	url := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/projects/" + projectID + "/events?access_token=" + alice.Token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool {
		return ts.App.Hub.Subscribers(projectID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	tk := createTask(t, ts, alice.Token, todo, "ship it")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string `json:"type"`
		Data struct {
			ProjectID string `json:"project_id"`
			TaskID    string `json:"task_id"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "task_created", msg.Type)
	require.Equal(t, projectID, msg.Data.ProjectID)
	require.Equal(t, tk.ID, msg.Data.TaskID)
}

func TestEventsStreamRequiresAccess(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	bob := ts.Register(t, "bob@example.com")
	projectID := createProject(t, ts, alice.Token, "Launch")

	url := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/projects/" + projectID + "/events?access_token=" + bob.Token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func connectMCP(t *testing.T, ts *testserver.TestServer, token string) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "functional-test", Version: "1.0.0"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) bool {
	t.Helper()

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text.Text), out), text.Text)
	}
	return !res.IsError
}

func TestMCPTools(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	projectID := createProject(t, ts, alice.Token, "Launch")

	cs := connectMCP(t, ts, alice.Token)

	var projects struct {
		Projects []struct {
			ID string `json:"id"`
		} `json:"projects"`
	}
	require.True(t, callTool(t, cs, "list_projects", map[string]any{}, &projects))
	require.Len(t, projects.Projects, 1)
	require.Equal(t, projectID, projects.Projects[0].ID)

	var b boardJSON
	require.True(t, callTool(t, cs, "get_board", map[string]any{"project_id": projectID}, &b))
	todo, done := b.Columns[0].ID, b.Columns[2].ID

	var first, second taskJSON
	require.True(t, callTool(t, cs, "create_task", map[string]any{"column_id": todo, "title": "write billing docs"}, &first))
	require.True(t, callTool(t, cs, "create_task", map[string]any{"column_id": todo, "title": "fix login"}, &second))

	var column struct {
		Tasks []taskJSON `json:"tasks"`
	}
	require.True(t, callTool(t, cs, "reorder_column", map[string]any{
		"column_id": todo,
		"task_ids":  []string{second.ID, first.ID},
	}, &column))
	require.Equal(t, []string{"fix login", "write billing docs"}, titles(column.Tasks))

	var failure struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.False(t, callTool(t, cs, "reorder_column", map[string]any{
		"column_id": todo,
		"task_ids":  []string{first.ID},
	}, &failure))
	require.Equal(t, "INVALID_ORDER_SET", failure.Error.Code)

	var moved taskJSON
	require.True(t, callTool(t, cs, "move_task", map[string]any{
		"task_id":   first.ID,
		"column_id": done,
		"index":     5,
	}, &moved))
	require.Equal(t, done, moved.ColumnID)
	require.Equal(t, 0, moved.Position)

	var search struct {
		Results []struct {
			Task    taskJSON `json:"task"`
			Snippet string   `json:"snippet"`
		} `json:"results"`
	}
	require.True(t, callTool(t, cs, "search_tasks", map[string]any{"project_id": projectID, "query": "billing"}, &search))
	require.Len(t, search.Results, 1)
	require.Equal(t, first.ID, search.Results[0].Task.ID)

	var report struct {
		TotalTasks int `json:"total_tasks"`
	}
	require.True(t, callTool(t, cs, "project_report", map[string]any{"project_id": projectID}, &report))
	require.Equal(t, 2, report.TotalTasks)

	require.True(t, callTool(t, cs, "delete_task", map[string]any{"task_id": second.ID}, nil))
	requireDense(t, getBoard(t, ts, alice.Token, projectID))
}

func TestMCPRejectsBadToken(t *testing.T) {
	ts := testserver.New(t)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "functional-test", Version: "1.0.0"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: "bogus", base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	defer cs.Close()

	_, err = cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_projects", Arguments: map[string]any{}})
	require.Error(t, err)
}
