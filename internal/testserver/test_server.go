// Package testserver runs the full HTTP stack over a temporary SQLite
// database for functional tests.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpggio/planboard/internal/app"
	"github.com/rpggio/planboard/internal/mcp"
	"github.com/rpggio/planboard/internal/sqlite"
	"github.com/rpggio/planboard/internal/transport"
)

// Password is used for every account created through Register.
const Password = "correct-horse-battery"

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	DB     *sqlite.DB
}

// User is an account registered against the test server.
type User struct {
	ID    string
	Email string
	Token string
}

func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "planboard.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	a := app.New(db, app.Options{HashCost: bcrypt.MinCost})

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.MCPServices(),
		Resolver:      a.Sessions,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	router := transport.NewServer(transport.Config{
		Services: a.HTTPServices(),
		Auth:     transport.AuthMiddleware(a.Sessions, nil),
		MCP:      mcp.NewHTTPHandler(mcpServer),
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, App: a, DB: db}
}

// Register creates an account and logs it in.
func (ts *TestServer) Register(t *testing.T, email string) User {
	t.Helper()

	var u struct {
		ID string `json:"id"`
	}
	ts.MustDo(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": Password,
	}, http.StatusCreated, &u)

	var login struct {
		Token string `json:"token"`
	}
	ts.MustDo(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": Password,
	}, http.StatusOK, &login)

	return User{ID: u.ID, Email: email, Token: login.Token}
}

// Do sends a JSON request and returns the status and raw body.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// MustDo is Do that requires wantStatus and decodes the body into out.
func (ts *TestServer) MustDo(t *testing.T, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()

	status, data := ts.Do(t, method, path, token, body)
	require.Equal(t, wantStatus, status, "%s %s: %s", method, path, data)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out))
	}
}

// ErrorCode returns the code of an error response body.
func ErrorCode(t *testing.T, data []byte) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &body), string(data))
	return body.Error.Code
}
