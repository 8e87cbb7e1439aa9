package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamchat-service/internal/middleware"
	"teamchat-service/internal/repositories"
	"teamchat-service/internal/telemetry"
)

// GroupHandler manages group and membership endpoints.
type GroupHandler struct {
	groups repositories.GroupRepository
	users  repositories.UserRepository
	audit  *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups repositories.GroupRepository, users repositories.UserRepository, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groups: groups, users: users, audit: audit}
}

// CreateGroup handles POST /groups (ADMIN only).
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groups.Create(c.Request.Context(), identity.OrgID, req.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "group name already exists in this organization"})
			return
		}
		emitAudit(c, h.audit, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create group"})
		return
	}

	emitAudit(c, h.audit, "INFO", "Group created")
	c.JSON(http.StatusCreated, group)
}

// ListGroups returns the groups the caller is a member of, filtered to the
// caller's organization.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return
	}

	groups, err := h.groups.ListForUser(c.Request.Context(), identity.UserID, identity.OrgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// AddMember handles POST /groups/:group_id/members (ADMIN only). Adding the
// same member twice succeeds without creating a second row. A group or user
// outside the caller's organization is reported as not found.
func (h *GroupHandler) AddMember(c *gin.Context) {
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
		UserID uuid.UUID `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groups.GetGroup(c.Request.Context(), groupID)
	if err != nil || group.OrgID != identity.OrgID {
		if err != nil && !errors.Is(err, repositories.ErrGroupNotFound) {
			emitAudit(c, h.audit, "ERROR", "internal error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load group"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}

	target, err := h.users.GetByID(c.Request.Context(), req.UserID)
	if err != nil || target.OrgID != identity.OrgID {
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			emitAudit(c, h.audit, "ERROR", "internal error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found in this organization"})
		return
	}

	if err := h.groups.AddMember(c.Request.Context(), groupID, req.UserID); err != nil {
		emitAudit(c, h.audit, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add member"})
		return
	}

	emitAudit(c, h.audit, "INFO", "Member added to group")
	c.JSON(http.StatusOK, gin.H{"message": "member added"})
}
