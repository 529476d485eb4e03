package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, projectID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, projectID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers(projectID) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestHub_DeliversToProjectSubscribers(t *testing.T) {
	hub := NewHub(nil)
	conn := dial(t, hub, "p1")

	hub.Publish(activity.Entry{ID: 7, ProjectID: "p2", Type: activity.TypeTaskCreated, Summary: "elsewhere"})
	hub.Publish(activity.Entry{ID: 8, ProjectID: "p1", Type: activity.TypeTaskMoved, Summary: "moved"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, string(activity.TypeTaskMoved), msg.Type)
	require.EqualValues(t, 8, msg.Data.ID)
	require.Equal(t, "moved", msg.Data.Summary)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub(nil)
	conn := dial(t, hub, "p1")

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers("p1") == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	c := hub.register("p1")

	for i := range sendBuffer {
		hub.Publish(activity.Entry{ID: int64(i), ProjectID: "p1"})
	}
	require.Equal(t, 1, hub.Subscribers("p1"))

	hub.Publish(activity.Entry{ID: 999, ProjectID: "p1"})
	require.Zero(t, hub.Subscribers("p1"))

	received := 0
	for range c.send {
		received++
	}
	require.Equal(t, sendBuffer, received)

	// Unregistering an already dropped client is a no-op.
	hub.unregister(c)
}
