package ws

import (
	"encoding/json"
	"log"
	"sync"

	"teamchat-service/internal/chat"
	"teamchat-service/internal/observability"
)

// Hub is the process-wide room registry: it maps tenant-scoped room keys to
// the set of live connections subscribed to them. It holds no persistent
// state and is rebuilt from zero on restart; sessions re-join on reconnect.
//
// All mutations and fan-outs are serialized through one RWMutex so a join
// and a broadcast on the same room can never interleave in a way that loses
// or double-delivers a message.
type Hub struct {
	rooms map[chat.RoomKey]map[*Client]bool
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[chat.RoomKey]map[*Client]bool)}
}

// Join subscribes the client to a room. Joining twice is a no-op.
func (h *Hub) Join(key chat.RoomKey, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client.closed {
		return
	}
	if _, ok := h.rooms[key]; !ok {
		h.rooms[key] = make(map[*Client]bool)
	}
	h.rooms[key][client] = true
	client.rooms[key] = struct{}{}
}

// Leave removes the client from a single room.
func (h *Hub) Leave(key chat.RoomKey, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(key, client)
	delete(client.rooms, key)
}

// LeaveAll removes the client from every room it joined and marks it closed
// so no later join can resurrect it. Invoked on connection close, before the
// handle is discarded.
func (h *Hub) LeaveAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key := range client.rooms {
		h.removeLocked(key, client)
	}
	client.rooms = make(map[chat.RoomKey]struct{})
	client.closed = true
}

func (h *Hub) removeLocked(key chat.RoomKey, client *Client) {
	if conns, ok := h.rooms[key]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.rooms, key)
		}
	}
}

// Broadcast delivers the event to the outbound queue of every connection
// subscribed to the room. Delivery is best-effort: a connection that cannot
// accept the payload is skipped and never fails the broadcast for others.
func (h *Hub) Broadcast(key chat.RoomKey, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[key] {
		if client.enqueue(payload) {
			observability.IncBroadcastDelivered()
		} else {
			observability.IncBroadcastDropped()
		}
	}
}

// RoomSize reports the number of live subscribers for a room.
func (h *Hub) RoomSize(key chat.RoomKey) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[key])
}
