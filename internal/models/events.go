package models

import "github.com/google/uuid"

// Live-channel event names.
const (
	EventJoinGroup      = "join_group"
	EventSendMessage    = "send_message"
	EventJoinedGroup    = "joined_group"
	EventReceiveMessage = "receive_message"
	EventError          = "error"
)

// ClientEvent is a frame sent by a connected client. The group id stays a
// string until the handler parses it, so a malformed id is answered with an
// error frame instead of tearing down the connection.
type ClientEvent struct {
	Type    string `json:"type"`
	GroupID string `json:"group_id"`
	Content string `json:"content,omitempty"`
}

// JoinedGroupEvent acknowledges a successful room join.
type JoinedGroupEvent struct {
	Type    string    `json:"type"`
	GroupID uuid.UUID `json:"group_id"`
	Room    string    `json:"room"`
}

// ReceiveMessageEvent carries a broadcast message to every subscriber.
type ReceiveMessageEvent struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

// ErrorEvent is delivered on the same connection and never closes it.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorEvent builds the named error frame.
func NewErrorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: msg}
}
