package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"teamchat-service/internal/models"
	"teamchat-service/internal/observability"
	"teamchat-service/internal/repositories"
)

const (
	// DefaultHistoryLimit applies when the caller does not ask for one.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit is the hard cap on a single history read.
	MaxHistoryLimit = 100
)

// Broadcaster delivers an event to every live connection in a room.
// Delivery is best-effort; a dead connection never fails the broadcast.
type Broadcaster interface {
	Broadcast(key RoomKey, event any)
}

// MessageService is the unified ingress pipeline shared by the one-shot
// create request and the live send event, plus the history reader. Both
// entry points run the same gates in the same order.
type MessageService struct {
	authority   *Authority
	messages    repositories.MessageRepository
	broadcaster Broadcaster
}

// NewMessageService constructs a MessageService.
func NewMessageService(authority *Authority, messages repositories.MessageRepository, broadcaster Broadcaster) *MessageService {
	return &MessageService{authority: authority, messages: messages, broadcaster: broadcaster}
}

// Send validates, authorizes, persists, and fans out a message. Persistence
// happens before broadcast: a recipient observing the broadcast may assume
// the message is already readable through the history path. The returned
// payload is composed from the stored record, never from caller input.
func (s *MessageService) Send(ctx context.Context, userID, orgID, groupID uuid.UUID, rawContent string) (models.MessagePayload, error) {
	ctx, span := otel.Tracer("teamchat-service/chat").Start(ctx, "ingress.send")
	defer span.End()

	content := strings.TrimSpace(rawContent)
	if content == "" {
		observability.IncMessageIngress("rejected")
		return models.MessagePayload{}, ErrEmptyContent
	}

	if err := s.authority.Authorize(ctx, userID, orgID, groupID); err != nil {
		observability.IncMessageIngress("denied")
		return models.MessagePayload{}, err
	}

	stored, err := s.messages.Create(ctx, groupID, userID, content)
	if err != nil {
		// No broadcast on persistence failure.
		observability.IncMessageIngress("store_failure")
		return models.MessagePayload{}, fmt.Errorf("store message: %w", err)
	}

	payload := stored.Payload()
	s.broadcaster.Broadcast(NewRoomKey(orgID, groupID), models.ReceiveMessageEvent{
		Type:    models.EventReceiveMessage,
		Message: payload,
	})
	observability.IncMessageIngress("accepted")
	return payload, nil
}

// History returns persisted messages for the group, oldest first, gated by
// the same membership check as ingress. The limit is clamped to the hard
// maximum regardless of what the caller requests.
func (s *MessageService) History(ctx context.Context, userID, orgID, groupID uuid.UUID, limit int) ([]models.MessagePayload, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	if err := s.authority.Authorize(ctx, userID, orgID, groupID); err != nil {
		return nil, err
	}

	recent, err := s.messages.ListRecent(ctx, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// The store hands back newest first; present chronological order.
	payloads := make([]models.MessagePayload, len(recent))
	for i, msg := range recent {
		payloads[len(recent)-1-i] = msg.Payload()
	}
	return payloads, nil
}
