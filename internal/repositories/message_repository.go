package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"teamchat-service/internal/models"
)

// MessageRepository abstracts message persistence. The store is the single
// authority on ordering: created_at is assigned here, never by the caller.
type MessageRepository interface {
	Create(ctx context.Context, groupID, senderID uuid.UUID, content string) (models.StoredMessage, error)
	ListRecent(ctx context.Context, groupID uuid.UUID, limit int) ([]models.StoredMessage, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create persists a message and returns the stored row joined with the
// sender's email, so outbound payloads are composed from the store alone.
func (r *MessageRepo) Create(ctx context.Context, groupID, senderID uuid.UUID, content string) (models.StoredMessage, error) {
	var msg models.StoredMessage
	err := r.db.GetContext(ctx, &msg,
		`WITH inserted AS (
            INSERT INTO messages (group_id, sender_id, content) VALUES ($1, $2, $3)
            RETURNING id, group_id, sender_id, content, created_at
         )
         SELECT i.id, i.group_id, i.sender_id, i.content, i.created_at, u.email AS sender_email
         FROM inserted i
         INNER JOIN users u ON u.id = i.sender_id`, groupID, senderID, content)
	return msg, err
}

// ListRecent returns the newest messages for a group, newest first, bounded
// by limit. Callers reverse for chronological presentation.
func (r *MessageRepo) ListRecent(ctx context.Context, groupID uuid.UUID, limit int) ([]models.StoredMessage, error) {
	msgs := []models.StoredMessage{}
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT m.id, m.group_id, m.sender_id, m.content, m.created_at, u.email AS sender_email
         FROM messages m
         INNER JOIN users u ON u.id = m.sender_id
         WHERE m.group_id=$1
         ORDER BY m.created_at DESC, m.id DESC
         LIMIT $2`, groupID, limit)
	return msgs, err
}
