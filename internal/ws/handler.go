package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/chat"
	"teamchat-service/internal/models"
	"teamchat-service/internal/observability"
)

const eventTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandler owns the live channel: it authenticates the connection at
// establishment and then processes join_group and send_message events until
// the transport closes.
type SocketHandler struct {
	hub       *Hub
	tokens    *auth.TokenService
	authority *chat.Authority
	messages  *chat.MessageService
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(hub *Hub, tokens *auth.TokenService, authority *chat.Authority, messages *chat.MessageService) *SocketHandler {
	return &SocketHandler{hub: hub, tokens: tokens, authority: authority, messages: messages}
}

// Handle authenticates and upgrades the connection. An authentication
// failure rejects the connection before it is admitted to any room.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("teamchat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	identity, err := h.tokens.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := newClient(h.hub, conn, identity)
	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	ip := observability.IPFromRequest(c.Request)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.publishLifecycle(context.Background(), client, "ws_connect", "", ip, requestID, traceID)

	go client.writePump()
	go h.readLoop(client, ip, requestID, traceID)
}

// readLoop is the session's event loop. Errors on individual events,
// including frames that do not decode, are reported as error frames on the
// same connection; only a transport failure ends the session.
func (h *SocketHandler) readLoop(client *Client, ip, requestID, traceID string) {
	var closeReason string
	defer func() {
		client.close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		h.publishLifecycle(context.Background(), client, "ws_disconnect", closeReason, ip, requestID, traceID)
	}()

	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}

		var event models.ClientEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			client.sendEvent(models.NewErrorEvent("malformed event"))
			continue
		}

		switch event.Type {
		case models.EventJoinGroup:
			h.handleJoin(client, event)
		case models.EventSendMessage:
			h.handleSend(client, event)
		default:
			client.sendEvent(models.NewErrorEvent("unknown event type"))
		}
	}
}

// handleJoin re-checks membership on every join; the result is never cached
// across the session. Denial emits an error frame without closing the
// connection.
func (h *SocketHandler) handleJoin(client *Client, event models.ClientEvent) {
	observability.IncWSEvent(models.EventJoinGroup)
	groupID, ok := parseGroupID(event.GroupID)
	if !ok {
		client.sendEvent(models.NewErrorEvent("valid group_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if err := h.authority.Authorize(ctx, client.identity.UserID, client.identity.OrgID, groupID); err != nil {
		client.sendEvent(models.NewErrorEvent(denialMessage(err)))
		return
	}

	key := chat.NewRoomKey(client.identity.OrgID, groupID)
	h.hub.Join(key, client)
	client.sendEvent(models.JoinedGroupEvent{
		Type:    models.EventJoinedGroup,
		GroupID: groupID,
		Room:    key.String(),
	})
}

// handleSend runs the shared ingress pipeline. The sender gets no private
// echo; it learns of its own message through the room broadcast like any
// other member.
func (h *SocketHandler) handleSend(client *Client, event models.ClientEvent) {
	observability.IncWSEvent(models.EventSendMessage)
	groupID, ok := parseGroupID(event.GroupID)
	if !ok {
		client.sendEvent(models.NewErrorEvent("valid group_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if _, err := h.messages.Send(ctx, client.identity.UserID, client.identity.OrgID, groupID, event.Content); err != nil {
		client.sendEvent(models.NewErrorEvent(denialMessage(err)))
	}
}

func parseGroupID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func denialMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyContent),
		errors.Is(err, chat.ErrGroupNotFound),
		errors.Is(err, chat.ErrNotAMember):
		return err.Error()
	default:
		return "internal error"
	}
}

func (h *SocketHandler) publishLifecycle(ctx context.Context, client *Client, event, reason, ip, requestID, traceID string) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       event,
			"conn_id":     client.connID,
			"duration_ms": time.Since(client.connectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id": client.identity.UserID.String(),
			"org_id":  client.identity.OrgID.String(),
			"ip":      ip,
		},
	}

	headers := observability.BuildHeaders(requestID, traceID)
	_ = observability.PublishEvent(ctx, "ws_events.connections", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload:   payload,
	}, headers)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		const prefix = "Bearer "
		if len(header) > len(prefix) && header[:len(prefix)] == prefix {
			return header[len(prefix):]
		}
		return ""
	}
	// Browsers cannot set headers on a websocket dial.
	return c.Query("token")
}
