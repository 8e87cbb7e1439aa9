package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"teamchat-service/internal/auth"
	"teamchat-service/internal/middleware"
	"teamchat-service/internal/mocks"
	"teamchat-service/internal/models"
	"teamchat-service/internal/repositories"
)

func testTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour)
}

func testHasher() *auth.Hasher {
	// Low cost keeps the suite fast.
	return auth.NewHasher(4)
}

func identityMiddleware(identity auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", identity)
		c.Next()
	}
}

func setupAuthRouter(handler *AuthHandler, identity *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register-org-admin", handler.RegisterOrgAdmin)
	r.POST("/auth/login", handler.Login)
	if identity != nil {
		r.POST("/auth/invite-member", identityMiddleware(*identity), middleware.RequireAdmin(), handler.InviteMember)
	}
	return r
}

func TestRegisterOrgAdminSuccess(t *testing.T) {
	orgs := new(mocks.OrgRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(orgs, users, testTokens(), testHasher(), nil)
	router := setupAuthRouter(handler, nil)

	org := models.Organization{ID: uuid.New(), Name: "Acme"}
	admin := models.User{ID: uuid.New(), OrgID: org.ID, Email: "admin@acme.test", Role: models.RoleAdmin}
	orgs.On("CreateWithAdmin", mock.Anything, "Acme", "admin@acme.test", mock.Anything).Return(org, admin, nil).Once()

	body := bytes.NewBufferString(`{"orgName":"Acme","email":"admin@acme.test","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register-org-admin", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp["token"])
	orgs.AssertExpectations(t)
}

func TestRegisterOrgAdminNameTaken(t *testing.T) {
	orgs := new(mocks.OrgRepositoryMock)
	handler := NewAuthHandler(orgs, new(mocks.UserRepositoryMock), testTokens(), testHasher(), nil)
	router := setupAuthRouter(handler, nil)

	orgs.On("CreateWithAdmin", mock.Anything, "Acme", "admin@acme.test", mock.Anything).
		Return(models.Organization{}, models.User{}, repositories.ErrOrgNameTaken).Once()

	body := bytes.NewBufferString(`{"orgName":"Acme","email":"admin@acme.test","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register-org-admin", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	orgs.AssertExpectations(t)
}

func TestRegisterOrgAdminShortPassword(t *testing.T) {
	handler := NewAuthHandler(new(mocks.OrgRepositoryMock), new(mocks.UserRepositoryMock), testTokens(), testHasher(), nil)
	router := setupAuthRouter(handler, nil)

	body := bytes.NewBufferString(`{"orgName":"Acme","email":"admin@acme.test","password":"abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register-org-admin", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	hasher := testHasher()
	handler := NewAuthHandler(new(mocks.OrgRepositoryMock), users, testTokens(), hasher, nil)
	router := setupAuthRouter(handler, nil)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), OrgID: uuid.New(), Email: "bob@acme.test", PasswordHash: hash, Role: models.RoleMember}
	users.On("GetByEmail", mock.Anything, "bob@acme.test").Return(user, nil).Once()

	body := bytes.NewBufferString(`{"email":"bob@acme.test","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	hasher := testHasher()
	handler := NewAuthHandler(new(mocks.OrgRepositoryMock), users, testTokens(), hasher, nil)
	router := setupAuthRouter(handler, nil)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: "bob@acme.test", PasswordHash: hash}
	users.On("GetByEmail", mock.Anything, "bob@acme.test").Return(user, nil).Once()

	body := bytes.NewBufferString(`{"email":"bob@acme.test","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(new(mocks.OrgRepositoryMock), users, testTokens(), testHasher(), nil)
	router := setupAuthRouter(handler, nil)

	users.On("GetByEmail", mock.Anything, "ghost@acme.test").Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@acme.test","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInviteMemberSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(new(mocks.OrgRepositoryMock), users, testTokens(), testHasher(), nil)
	admin := auth.Identity{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleAdmin}
	router := setupAuthRouter(handler, &admin)

	invited := models.User{ID: uuid.New(), OrgID: admin.OrgID, Email: "new@acme.test", Role: models.RoleMember}
	users.On("Create", mock.Anything, admin.OrgID, "new@acme.test", mock.Anything, models.RoleMember).Return(invited, nil).Once()

	body := bytes.NewBufferString(`{"email":"new@acme.test","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/invite-member", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	users.AssertExpectations(t)
}

func TestInviteMemberForbiddenForMembers(t *testing.T) {
	handler := NewAuthHandler(new(mocks.OrgRepositoryMock), new(mocks.UserRepositoryMock), testTokens(), testHasher(), nil)
	member := auth.Identity{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleMember}
	router := setupAuthRouter(handler, &member)

	body := bytes.NewBufferString(`{"email":"new@acme.test","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/invite-member", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
