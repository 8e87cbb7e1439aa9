package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once created. The store assigns created_at and it is
// the sole ordering key within a group.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GroupID   uuid.UUID `db:"group_id" json:"group_id"`
	SenderID  uuid.UUID `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StoredMessage is a message row joined with its sender's email, as read
// back from the store.
type StoredMessage struct {
	Message
	SenderEmail string `db:"sender_email" json:"-"`
}

// Sender identifies the author of a broadcast message.
type Sender struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// MessagePayload is the canonical outbound shape, composed from the stored
// record so a caller can never spoof its own identity.
type MessagePayload struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	GroupID   uuid.UUID `json:"group_id"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// Payload builds the canonical outbound payload from a stored row.
func (m StoredMessage) Payload() MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Content:   m.Content,
		GroupID:   m.GroupID,
		Sender:    Sender{ID: m.SenderID, Email: m.SenderEmail},
		CreatedAt: m.CreatedAt,
	}
}
