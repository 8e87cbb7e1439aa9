package chat

import (
	"fmt"

	"github.com/google/uuid"
)

// RoomKey scopes live fan-out to one group within one organization. It is a
// comparable value type, so a crafted identifier can never collide with a
// room in another organization.
type RoomKey struct {
	OrgID   uuid.UUID
	GroupID uuid.UUID
}

// NewRoomKey derives the room key for a group within an organization.
func NewRoomKey(orgID, groupID uuid.UUID) RoomKey {
	return RoomKey{OrgID: orgID, GroupID: groupID}
}

// String renders the room name carried in join acknowledgements.
func (k RoomKey) String() string {
	return fmt.Sprintf("org:%s:group:%s", k.OrgID, k.GroupID)
}
