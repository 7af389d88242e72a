package live

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/gorilla/websocket"
)

type client struct {
	conn      *websocket.Conn
	remote    string
	projectID string
	send      chan []byte

	// mu guards topics and closed; send is only written or closed under it.
	mu     sync.RWMutex
	topics map[string]bool
	closed bool
}

func newClient(conn *websocket.Conn, projectID string) *client {
	c := &client{
		conn:      conn,
		projectID: projectID,
		send:      make(chan []byte, sendBuffer),
		topics:    make(map[string]bool, len(contract.AllTopics)),
	}
	if conn != nil {
		c.remote = conn.RemoteAddr().String()
	}
	for _, t := range contract.AllTopics {
		c.topics[t] = true
	}
	return c
}

func (c *client) wants(topic, projectID string) bool {
	if c.projectID != "" && projectID != "" && c.projectID != projectID {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[topic]
}

// subscribe adds known topics and returns the resulting subscription set.
func (c *client) subscribe(topics []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		if slices.Contains(contract.AllTopics, t) {
			c.topics[t] = true
		}
	}
	return c.subscribedLocked()
}

func (c *client) unsubscribe(topics []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.topics, t)
	}
	return c.subscribedLocked()
}

func (c *client) subscribedLocked() []string {
	out := make([]string, 0, len(c.topics))
	for _, t := range contract.AllTopics {
		if c.topics[t] {
			out = append(out, t)
		}
	}
	return out
}

// queue enqueues a direct reply. Replies to a client whose buffer is full
// are dropped; the next broadcast disconnects it.
func (c *client) queue(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.trySend(payload)
}

// trySend enqueues payload without blocking. It reports false when the
// buffer is full or the client is already closed.
func (c *client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
