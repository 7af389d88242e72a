// Package live fans committed schedule changes out to WebSocket clients.
//
// Every connection starts subscribed to all topics and may narrow the set
// with subscribe / unsubscribe commands. A client that cannot keep up with
// broadcasts is disconnected rather than allowed to stall the others.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Message is every frame the hub writes.
type Message struct {
	Type      string   `json:"type"`
	Event     string   `json:"event,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
	Data      any      `json:"data,omitempty"`
	Status    string   `json:"status,omitempty"`
	Message   string   `json:"message,omitempty"`
	Events    []string `json:"events,omitempty"`
	Timestamp any      `json:"timestamp,omitempty"`
}

// Hub tracks connected clients and their topic subscriptions.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	logger   *slog.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHub creates an empty hub. A nil logger discards hub logs.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The API sits behind the same gateway that authenticates it.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// Notify broadcasts a committed change; it satisfies service.Notifier.
func (h *Hub) Notify(_ context.Context, change contract.Change) {
	h.Broadcast(Message{
		Type:      change.Type,
		Event:     change.Topic,
		ProjectID: change.ProjectID,
		Data:      change.Data,
		Timestamp: h.timestamp(),
	})
}

// Broadcast sends msg to every client subscribed to msg.Event and, for
// clients watching one project, only when the project matches.
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding live message", "type", msg.Type, "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		if !c.wants(msg.Event, msg.ProjectID) {
			continue
		}
		if !c.trySend(payload) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow live client", "remote", c.remote)
		h.unregister(c)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

// ServeWS upgrades the request and serves the connection until it closes.
// An optional project_id query parameter limits broadcasts to one project.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn, r.URL.Query().Get("project_id"))
	h.register(c)
	h.logger.Info("live client connected", "remote", c.remote, "project_id", c.projectID)

	c.queue(Message{Type: "connection", Status: "connected", Events: slices.Clone(contract.AllTopics), Timestamp: h.timestamp()})

	go c.writePump()
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

func (h *Hub) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

type command struct {
	Action    string   `json:"action"`
	Events    []string `json:"events"`
	Timestamp any      `json:"timestamp"`
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		h.logger.Info("live client disconnected", "remote", c.remote)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live client read failed", "remote", c.remote, "error", err)
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.queue(Message{Type: "error", Message: "invalid JSON"})
			continue
		}
		switch cmd.Action {
		case "subscribe":
			c.queue(Message{Type: "subscribed", Events: c.subscribe(cmd.Events)})
		case "unsubscribe":
			c.queue(Message{Type: "unsubscribed", Events: c.unsubscribe(cmd.Events)})
		case "ping":
			c.queue(Message{Type: "pong", Timestamp: cmd.Timestamp})
		default:
			c.queue(Message{Type: "error", Message: "unknown action " + cmd.Action})
		}
	}
}
