package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/chat"
)

func testClient(hub *Hub) *Client {
	return newClient(hub, nil, auth.Identity{UserID: uuid.New(), OrgID: uuid.New()})
}

func receivedPayloads(c *Client) [][]byte {
	var payloads [][]byte
	for {
		select {
		case payload := <-c.send:
			payloads = append(payloads, payload)
		default:
			return payloads
		}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	client := testClient(hub)
	key := chat.NewRoomKey(uuid.New(), uuid.New())

	hub.Join(key, client)
	hub.Join(key, client)

	require.Equal(t, 1, hub.RoomSize(key))
}

func TestLeaveAllRemovesEveryRoom(t *testing.T) {
	hub := NewHub()
	client := testClient(hub)
	first := chat.NewRoomKey(uuid.New(), uuid.New())
	second := chat.NewRoomKey(uuid.New(), uuid.New())

	hub.Join(first, client)
	hub.Join(second, client)
	hub.LeaveAll(client)

	require.Equal(t, 0, hub.RoomSize(first))
	require.Equal(t, 0, hub.RoomSize(second))

	// A closed session can never be resurrected into a room.
	hub.Join(first, client)
	require.Equal(t, 0, hub.RoomSize(first))
}

func TestBroadcastReachesOnlyTheRoom(t *testing.T) {
	hub := NewHub()
	orgID := uuid.New()
	groupID := uuid.New()
	room := chat.NewRoomKey(orgID, groupID)
	// Same group id under a different org is a different room.
	otherRoom := chat.NewRoomKey(uuid.New(), groupID)

	a := testClient(hub)
	b := testClient(hub)
	c := testClient(hub)
	hub.Join(room, a)
	hub.Join(room, b)
	hub.Join(otherRoom, c)

	hub.Broadcast(room, map[string]string{"type": "receive_message"})

	require.Len(t, receivedPayloads(a), 1)
	require.Len(t, receivedPayloads(b), 1)
	assert.Empty(t, receivedPayloads(c))
}

func TestBroadcastSkipsDepartedConnection(t *testing.T) {
	hub := NewHub()
	room := chat.NewRoomKey(uuid.New(), uuid.New())

	stayed := testClient(hub)
	departed := testClient(hub)
	hub.Join(room, stayed)
	hub.Join(room, departed)
	hub.LeaveAll(departed)

	hub.Broadcast(room, map[string]string{"type": "receive_message"})

	require.Len(t, receivedPayloads(stayed), 1)
	assert.Empty(t, receivedPayloads(departed))
}

func TestBroadcastDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	room := chat.NewRoomKey(uuid.New(), uuid.New())

	healthy := testClient(hub)
	stalled := testClient(hub)
	hub.Join(room, healthy)
	hub.Join(room, stalled)

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, stalled.enqueue([]byte("x")))
	}

	// A stalled connection never fails the broadcast for other recipients.
	hub.Broadcast(room, map[string]string{"type": "receive_message"})

	require.Len(t, receivedPayloads(healthy), 1)
	require.Len(t, receivedPayloads(stalled), sendBufferSize)
}

func TestBroadcastPayloadShape(t *testing.T) {
	hub := NewHub()
	room := chat.NewRoomKey(uuid.New(), uuid.New())
	client := testClient(hub)
	hub.Join(room, client)

	hub.Broadcast(room, map[string]string{"type": "receive_message", "content": "hi"})

	payloads := receivedPayloads(client)
	require.Len(t, payloads, 1)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(payloads[0], &decoded))
	assert.Equal(t, "receive_message", decoded["type"])
	assert.Equal(t, "hi", decoded["content"])
}
