package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamchat-service/internal/chat"
	"teamchat-service/internal/middleware"
	"teamchat-service/internal/telemetry"
)

// MessageHandler exposes the history reader and the one-shot ingress entry
// point. Both run the same membership gate as the live channel.
type MessageHandler struct {
	messages *chat.MessageService
	audit    *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messages *chat.MessageService, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{messages: messages, audit: audit}
}

// GetMessages handles GET /groups/:group_id/messages?limit=N. The limit is
// clamped to a hard maximum; messages come back oldest first.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return
	}

	groupID, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.messages.History(c.Request.Context(), identity.UserID, identity.OrgID, groupID, limit)
	if err != nil {
		if errors.Is(err, chat.ErrGroupNotFound) || errors.Is(err, chat.ErrNotAMember) {
			emitAudit(c, h.audit, "ERROR", "not allowed")
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied or group not found"})
			return
		}
		emitAudit(c, h.audit, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessage handles POST /groups/:group_id/messages: the one-shot entry
// point of the shared ingress pipeline. The stored record is returned to the
// caller; subscribers receive it through the room broadcast.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return
	}

	groupID, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.messages.Send(c.Request.Context(), identity.UserID, identity.OrgID, groupID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message content is required"})
		case errors.Is(err, chat.ErrGroupNotFound), errors.Is(err, chat.ErrNotAMember):
			emitAudit(c, h.audit, "ERROR", "not allowed")
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied or group not found"})
		default:
			emitAudit(c, h.audit, "ERROR", "internal error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		}
		return
	}

	emitAudit(c, h.audit, "INFO", "Message sent")
	c.JSON(http.StatusCreated, payload)
}
