package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"teamchat-service/internal/chat"
	"teamchat-service/internal/models"
	"teamchat-service/internal/repositories"
)

type OrgRepositoryMock struct {
	mock.Mock
}

func (m *OrgRepositoryMock) CreateWithAdmin(ctx context.Context, orgName, email, passwordHash string) (models.Organization, models.User, error) {
	args := m.Called(ctx, orgName, email, passwordHash)
	var org models.Organization
	if val := args.Get(0); val != nil {
		org = val.(models.Organization)
	}
	var user models.User
	if val := args.Get(1); val != nil {
		user = val.(models.User)
	}
	return org, user, args.Error(2)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, orgID uuid.UUID, email, passwordHash string, role models.Role) (models.User, error) {
	args := m.Called(ctx, orgID, email, passwordHash, role)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) Create(ctx context.Context, orgID uuid.UUID, name string) (models.Group, error) {
	args := m.Called(ctx, orgID, name)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID uuid.UUID) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) ListForUser(ctx context.Context, userID, orgID uuid.UUID) ([]models.Group, error) {
	args := m.Called(ctx, userID, orgID)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, groupID, senderID uuid.UUID, content string) (models.StoredMessage, error) {
	args := m.Called(ctx, groupID, senderID, content)
	var msg models.StoredMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.StoredMessage)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListRecent(ctx context.Context, groupID uuid.UUID, limit int) ([]models.StoredMessage, error) {
	args := m.Called(ctx, groupID, limit)
	var msgs []models.StoredMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.StoredMessage)
	}
	return msgs, args.Error(1)
}

type BroadcasterMock struct {
	mock.Mock
}

func (m *BroadcasterMock) Broadcast(key chat.RoomKey, event any) {
	m.Called(key, event)
}

var _ repositories.OrgRepository = (*OrgRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ chat.Broadcaster = (*BroadcasterMock)(nil)
