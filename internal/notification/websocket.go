// internal/notification/websocket.go

package notification

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var errNotConnected = errors.New("user has no active connection")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Configure origin checking in production
		return true
	},
}

// Message is the wire frame pushed to connected clients
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks connected websocket clients by user id and pushes
// notifications to them. One connection per user; a new connection
// replaces the old one.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*client
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	userID int64
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

// Name implements Channel
func (h *Hub) Name() string { return "websocket" }

// Deliver implements Channel. Delivery fails when the user is not
// connected or their send buffer is full. The send happens under the
// read lock: close(c.send) needs the write lock, so a reconnect cannot
// close the channel mid-send.
func (h *Hub) Deliver(ctx context.Context, userID int64, kind string, payload interface{}) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	sent := false
	if ok {
		select {
		case c.send <- Message{Type: kind, Data: payload}:
			sent = true
		default:
		}
	}
	h.mu.RUnlock()

	if !ok {
		return errNotConnected
	}
	if !sent {
		// Slow consumer; drop the connection rather than block.
		h.remove(c)
		return errNotConnected
	}
	return nil
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	if old, ok := h.clients[c.userID]; ok {
		close(old.send)
	}
	h.clients[c.userID] = c
	h.mu.Unlock()
	log.Printf("User %d connected", c.userID)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if current, ok := h.clients[c.userID]; ok && current == c {
		delete(h.clients, c.userID)
		close(c.send)
		log.Printf("User %d disconnected", c.userID)
	}
	h.mu.Unlock()
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	// Set by the auth middleware.
	userID := r.Context().Value("userID").(int64)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan Message, 256),
		userID: userID,
	}

	h.add(c)

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteJSON(message); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
