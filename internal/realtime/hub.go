// Package realtime pushes project activity to websocket subscribers.
package realtime

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/planboard/internal/domain/activity"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = pongTimeout * 9 / 10
)

// Message is the envelope written to subscribers.
type Message struct {
	Type string         `json:"type"`
	Data activity.Entry `json:"data"`
}

type client struct {
	projectID string
	send      chan Message
}

// Hub fans activity entries out to the subscribers of each project. A
// subscriber that falls behind is disconnected rather than slowing Publish.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var _ activity.Broadcaster = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Publish queues entry for every subscriber of its project.
func (h *Hub) Publish(entry activity.Entry) {
	msg := Message{Type: string(entry.Type), Data: entry}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[entry.ProjectID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow subscriber", "project_id", entry.ProjectID)
			h.removeLocked(c)
		}
	}
}

// Subscribers returns the number of live subscribers of a project.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[projectID])
}

// Serve upgrades the request and streams the project's activity until the
// connection closes. Callers authorize the request first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, projectID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := h.register(projectID)
	h.logger.Info("subscriber connected", "project_id", projectID, "total", h.Subscribers(projectID))

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readLoop(conn, c)
	}()
	h.writeLoop(conn, c, done)

	h.unregister(c)
	conn.Close()
	h.logger.Info("subscriber disconnected", "project_id", projectID, "remaining", h.Subscribers(projectID))
}

func (h *Hub) register(projectID string) *client {
	c := &client{projectID: projectID, send: make(chan Message, sendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[projectID] == nil {
		h.clients[projectID] = make(map[*client]struct{})
	}
	h.clients[projectID][c] = struct{}{}
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.projectID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.projectID)
	}
}

// readLoop consumes control frames. Subscribers do not send data.
func (h *Hub) readLoop(conn *websocket.Conn, c *client) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "subscriber too slow"))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
