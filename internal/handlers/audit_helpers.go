package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamchat-service/internal/middleware"
	"teamchat-service/internal/telemetry"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func auditIdentity(c *gin.Context) (userID, orgID *string) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return nil, nil
	}
	user := identity.UserID.String()
	org := identity.OrgID.String()
	return &user, &org
}

func emitAudit(c *gin.Context, emitter *telemetry.AuditEmitter, level, text string) {
	if emitter == nil {
		return
	}
	userID, orgID := auditIdentity(c)
	emitter.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userID, orgID)
}
