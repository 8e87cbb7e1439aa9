package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is the per-connection session: the verified identity plus the set
// of rooms the connection has joined. It exists only for the lifetime of
// the websocket and is never persisted.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity auth.Identity
	send     chan []byte

	// rooms and closed are guarded by hub.mu.
	rooms  map[chat.RoomKey]struct{}
	closed bool

	connID      string
	connectedAt time.Time
	closeOnce   sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, identity auth.Identity) *Client {
	if conn != nil {
		conn.SetReadLimit(maxMessageSize)
	}
	return &Client{
		hub:         hub,
		conn:        conn,
		identity:    identity,
		send:        make(chan []byte, sendBufferSize),
		rooms:       make(map[chat.RoomKey]struct{}),
		connID:      newConnID(),
		connectedAt: time.Now(),
	}
}

// newConnID labels the session in logs and lifecycle events. It carries no
// authority; the identity on the client does.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// enqueue offers a payload to the outbound queue without blocking. A full
// queue drops the payload rather than stalling the fan-out.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// sendEvent marshals and enqueues an event for this connection only.
func (c *Client) sendEvent(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws event marshal error: %v", err)
		return
	}
	if !c.enqueue(payload) {
		log.Printf("ws send queue full conn=%s", c.connID)
	}
}

// close leaves every room before the handle is discarded, so the registry
// never iterates dangling connections.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.LeaveAll(c)
		close(c.send)
		c.conn.Close()
	})
}

// writePump drains the outbound queue onto the wire and keeps the
// connection alive with pings. One writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
