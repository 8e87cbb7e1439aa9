package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/middleware"
	"teamchat-service/internal/models"
	"teamchat-service/internal/repositories"
	"teamchat-service/internal/telemetry"
)

// AuthHandler manages registration, login, and member invitation.
type AuthHandler struct {
	orgs   repositories.OrgRepository
	users  repositories.UserRepository
	tokens *auth.TokenService
	hasher *auth.Hasher
	audit  *telemetry.AuditEmitter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(orgs repositories.OrgRepository, users repositories.UserRepository, tokens *auth.TokenService, hasher *auth.Hasher, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{orgs: orgs, users: users, tokens: tokens, hasher: hasher, audit: audit}
}

// RegisterOrgAdmin handles POST /auth/register-org-admin: it creates the
// organization and its first ADMIN user atomically.
func (h *AuthHandler) RegisterOrgAdmin(c *gin.Context) {
	var req struct {
		OrgName  string `json:"orgName" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	org, admin, err := h.orgs.CreateWithAdmin(c.Request.Context(), req.OrgName, req.Email, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrgNameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "organization name already taken"})
		case errors.Is(err, repositories.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			emitAudit(c, h.audit, "ERROR", "internal error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create organization"})
		}
		return
	}

	token, err := h.tokens.Issue(admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	emitAudit(c, h.audit, "INFO", "Organization registered")
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": admin, "org": org})
}

// Login handles POST /auth/login. An unknown email and a wrong password are
// reported identically.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !h.hasher.Compare(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// InviteMember handles POST /auth/invite-member (ADMIN only): it creates a
// MEMBER in the caller's organization.
func (h *AuthHandler) InviteMember(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), identity.OrgID, req.Email, passwordHash, models.RoleMember)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		emitAudit(c, h.audit, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	emitAudit(c, h.audit, "INFO", "Member invited")
	c.JSON(http.StatusCreated, gin.H{"user": user})
}
