package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/chat"
	"teamchat-service/internal/mocks"
	"teamchat-service/internal/models"
)

type handlerFixture struct {
	groups   *mocks.GroupRepositoryMock
	messages *mocks.MessageRepositoryMock
	handler  *SocketHandler
	hub      *Hub
	client   *Client
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		groups:   new(mocks.GroupRepositoryMock),
		messages: new(mocks.MessageRepositoryMock),
		hub:      NewHub(),
	}
	authority := chat.NewAuthority(f.groups)
	service := chat.NewMessageService(authority, f.messages, f.hub)
	f.handler = NewSocketHandler(f.hub, auth.NewTokenService("test-secret", time.Hour), authority, service)
	f.client = newClient(f.hub, nil, auth.Identity{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleMember})
	return f
}

func decodeFrames(t *testing.T, client *Client) []map[string]any {
	t.Helper()
	var frames []map[string]any
	for _, payload := range receivedPayloads(client) {
		var frame map[string]any
		require.NoError(t, json.Unmarshal(payload, &frame))
		frames = append(frames, frame)
	}
	return frames
}

// A join carrying an unparseable group id is answered with an error frame on
// the same connection; the session stays usable for a later valid join.
func TestHandleJoinMalformedGroupID(t *testing.T) {
	f := newHandlerFixture()

	f.handler.handleJoin(f.client, models.ClientEvent{Type: models.EventJoinGroup, GroupID: "not-a-uuid"})

	frames := decodeFrames(t, f.client)
	require.Len(t, frames, 1)
	require.Equal(t, models.EventError, frames[0]["type"])
	f.groups.AssertNotCalled(t, "GetGroup", mock.Anything, mock.Anything)

	groupID := uuid.New()
	f.groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{ID: groupID, OrgID: f.client.identity.OrgID}, nil).Once()
	f.groups.On("IsMember", mock.Anything, groupID, f.client.identity.UserID).Return(true, nil).Once()

	f.handler.handleJoin(f.client, models.ClientEvent{Type: models.EventJoinGroup, GroupID: groupID.String()})

	key := chat.NewRoomKey(f.client.identity.OrgID, groupID)
	require.Equal(t, 1, f.hub.RoomSize(key))

	frames = decodeFrames(t, f.client)
	require.Len(t, frames, 1)
	require.Equal(t, models.EventJoinedGroup, frames[0]["type"])
	require.Equal(t, key.String(), frames[0]["room"])
}

func TestHandleJoinEmptyGroupID(t *testing.T) {
	f := newHandlerFixture()

	f.handler.handleJoin(f.client, models.ClientEvent{Type: models.EventJoinGroup})

	frames := decodeFrames(t, f.client)
	require.Len(t, frames, 1)
	require.Equal(t, models.EventError, frames[0]["type"])
	require.Equal(t, 0, f.hub.RoomSize(chat.NewRoomKey(f.client.identity.OrgID, uuid.Nil)))
}

func TestHandleSendMalformedGroupID(t *testing.T) {
	f := newHandlerFixture()

	f.handler.handleSend(f.client, models.ClientEvent{Type: models.EventSendMessage, GroupID: "42", Content: "hi"})

	frames := decodeFrames(t, f.client)
	require.Len(t, frames, 1)
	require.Equal(t, models.EventError, frames[0]["type"])
	f.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A denied join reports the denial in-band; the connection is not admitted to
// the room and is not torn down.
func TestHandleJoinDeniedReportsInBand(t *testing.T) {
	f := newHandlerFixture()

	groupID := uuid.New()
	f.groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{ID: groupID, OrgID: uuid.New()}, nil).Once()

	f.handler.handleJoin(f.client, models.ClientEvent{Type: models.EventJoinGroup, GroupID: groupID.String()})

	frames := decodeFrames(t, f.client)
	require.Len(t, frames, 1)
	require.Equal(t, models.EventError, frames[0]["type"])
	require.Equal(t, chat.ErrGroupNotFound.Error(), frames[0]["message"])
	require.Equal(t, 0, f.hub.RoomSize(chat.NewRoomKey(f.client.identity.OrgID, groupID)))
}
