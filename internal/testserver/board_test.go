package testserver_test

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/planboard/internal/testserver"
)

type taskJSON struct {
	ID       string `json:"id"`
	ColumnID string `json:"column_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type columnJSON struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Position  int        `json:"position"`
	Tasks     []taskJSON `json:"tasks"`
	OverLimit bool       `json:"over_limit"`
}

type boardJSON struct {
	ProjectID string       `json:"project_id"`
	Columns   []columnJSON `json:"columns"`
}

func createProject(t *testing.T, ts *testserver.TestServer, token, name string) string {
	t.Helper()
	var proj struct {
		ID string `json:"id"`
	}
	ts.MustDo(t, http.MethodPost, "/projects", token, map[string]string{"name": name}, http.StatusCreated, &proj)
	return proj.ID
}

func getBoard(t *testing.T, ts *testserver.TestServer, token, projectID string) boardJSON {
	t.Helper()
	var b boardJSON
	ts.MustDo(t, http.MethodGet, "/projects/"+projectID+"/board", token, nil, http.StatusOK, &b)
	return b
}

func createTask(t *testing.T, ts *testserver.TestServer, token, columnID, title string) taskJSON {
	t.Helper()
	var tk taskJSON
	ts.MustDo(t, http.MethodPost, "/columns/"+columnID+"/tasks", token, map[string]string{"title": title}, http.StatusCreated, &tk)
	return tk
}

func titles(tasks []taskJSON) []string {
	out := make([]string, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.Title
	}
	return out
}

// requireDense checks every column holds positions 0..n-1 in order.
func requireDense(t *testing.T, b boardJSON) {
	t.Helper()
	for i, col := range b.Columns {
		require.Equal(t, i, col.Position, "column %s", col.Name)
		for j, tk := range col.Tasks {
			require.Equal(t, j, tk.Position, "task %s in %s", tk.Title, col.Name)
			require.Equal(t, col.ID, tk.ColumnID)
		}
	}
}

func TestBoardLifecycle(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")

	projectID := createProject(t, ts, alice.Token, "Launch")
	b := getBoard(t, ts, alice.Token, projectID)
	require.Len(t, b.Columns, 3)
	require.Equal(t, "To Do", b.Columns[0].Name)
	todo, doing := b.Columns[0].ID, b.Columns[1].ID

	a := createTask(t, ts, alice.Token, todo, "a")
	bt := createTask(t, ts, alice.Token, todo, "b")
	c := createTask(t, ts, alice.Token, todo, "c")
	require.Equal(t, 2, c.Position)

	var reordered []taskJSON
	ts.MustDo(t, http.MethodPut, "/columns/"+todo+"/tasks/order", alice.Token,
		map[string][]string{"ids": {c.ID, a.ID, bt.ID}}, http.StatusOK, &reordered)
	require.Equal(t, []string{"c", "a", "b"}, titles(reordered))

	var moved taskJSON
	ts.MustDo(t, http.MethodPost, "/tasks/"+a.ID+"/move", alice.Token,
		map[string]any{"column_id": doing, "index": 0}, http.StatusOK, &moved)
	require.Equal(t, doing, moved.ColumnID)
	require.Equal(t, 0, moved.Position)

	ts.MustDo(t, http.MethodDelete, "/tasks/"+c.ID, alice.Token, nil, http.StatusNoContent, nil)

	b = getBoard(t, ts, alice.Token, projectID)
	requireDense(t, b)
	require.Equal(t, []string{"b"}, titles(b.Columns[0].Tasks))
	require.Equal(t, []string{"a"}, titles(b.Columns[1].Tasks))

	var activity []struct {
		Type string `json:"type"`
	}
	ts.MustDo(t, http.MethodGet, "/projects/"+projectID+"/activity?type=task_moved", alice.Token, nil, http.StatusOK, &activity)
	require.Len(t, activity, 1)
}

func TestReorderRejectsIncompleteSet(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	projectID := createProject(t, ts, alice.Token, "Launch")
	todo := getBoard(t, ts, alice.Token, projectID).Columns[0].ID

	a := createTask(t, ts, alice.Token, todo, "a")
	createTask(t, ts, alice.Token, todo, "b")

	status, body := ts.Do(t, http.MethodPut, "/columns/"+todo+"/tasks/order", alice.Token,
		map[string][]string{"ids": {a.ID}})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "INVALID_ORDER_SET", testserver.ErrorCode(t, body))

	status, body = ts.Do(t, http.MethodPut, "/columns/"+todo+"/tasks/order", alice.Token,
		map[string][]string{"ids": {a.ID, a.ID}})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "INVALID_ORDER_SET", testserver.ErrorCode(t, body))

	b := getBoard(t, ts, alice.Token, projectID)
	require.Equal(t, []string{"a", "b"}, titles(b.Columns[0].Tasks))
}

func TestMoveAcrossProjectsRejected(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	p1 := createProject(t, ts, alice.Token, "One")
	p2 := createProject(t, ts, alice.Token, "Two")

	tk := createTask(t, ts, alice.Token, getBoard(t, ts, alice.Token, p1).Columns[0].ID, "a")
	other := getBoard(t, ts, alice.Token, p2).Columns[0].ID

	status, _ := ts.Do(t, http.MethodPost, "/tasks/"+tk.ID+"/move", alice.Token,
		map[string]any{"column_id": other, "index": 0})
	require.GreaterOrEqual(t, status, 400)
	require.Less(t, status, 500)

	b := getBoard(t, ts, alice.Token, p1)
	require.Equal(t, []string{"a"}, titles(b.Columns[0].Tasks))
}

func TestPermissions(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	bob := ts.Register(t, "bob@example.com")

	projectID := createProject(t, ts, alice.Token, "Launch")
	todo := getBoard(t, ts, alice.Token, projectID).Columns[0].ID
	a := createTask(t, ts, alice.Token, todo, "a")

	status, body := ts.Do(t, http.MethodPost, "/tasks/"+a.ID+"/move", bob.Token,
		map[string]any{"column_id": todo, "index": 0})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "FORBIDDEN", testserver.ErrorCode(t, body))

	ts.MustDo(t, http.MethodPost, "/projects/"+projectID+"/members", alice.Token,
		map[string]string{"user_id": bob.ID, "role": "viewer"}, http.StatusCreated, nil)

	getBoard(t, ts, bob.Token, projectID)
	status, _ = ts.Do(t, http.MethodDelete, "/tasks/"+a.ID, bob.Token, nil)
	require.Equal(t, http.StatusForbidden, status)

	ts.MustDo(t, http.MethodPost, "/projects/"+projectID+"/members", alice.Token,
		map[string]string{"user_id": bob.ID, "role": "editor"}, http.StatusCreated, nil)
	createTask(t, ts, bob.Token, todo, "b")
}

func TestAuthRequired(t *testing.T) {
	ts := testserver.New(t)

	status, body := ts.Do(t, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHENTICATED", testserver.ErrorCode(t, body))

	status, _ = ts.Do(t, http.MethodGet, "/projects", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	alice := ts.Register(t, "alice@example.com")
	ts.MustDo(t, http.MethodPost, "/auth/logout", alice.Token, nil, http.StatusNoContent, nil)
	status, _ = ts.Do(t, http.MethodGet, "/me", alice.Token, nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestConcurrentMovesKeepColumnsDense(t *testing.T) {
	ts := testserver.New(t)
	alice := ts.Register(t, "alice@example.com")
	projectID := createProject(t, ts, alice.Token, "Launch")
	b := getBoard(t, ts, alice.Token, projectID)

	var tasks []taskJSON
	for i := range 8 {
		tasks = append(tasks, createTask(t, ts, alice.Token, b.Columns[0].ID, fmt.Sprintf("t%d", i)))
	}

	var wg sync.WaitGroup
	statuses := make(chan int, len(tasks))
	errs := make(chan error, len(tasks))
	for i, tk := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := b.Columns[i%len(b.Columns)].ID
			body := fmt.Sprintf(`{"column_id":%q,"index":%d}`, target, i%3)
			req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/tasks/"+tk.ID+"/move", strings.NewReader(body))
			if err != nil {
				errs <- err
				return
			}
			req.Header.Set("Authorization", "Bearer "+alice.Token)
			resp, err := ts.Server.Client().Do(req)
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for status := range statuses {
		// Timeouts and conflicts are retryable; anything else is a bug.
		require.Contains(t, []int{http.StatusOK, http.StatusConflict, http.StatusServiceUnavailable}, status)
	}

	b = getBoard(t, ts, alice.Token, projectID)
	requireDense(t, b)
	total := 0
	for _, col := range b.Columns {
		total += len(col.Tasks)
	}
	require.Equal(t, len(tasks), total)
}
