package chat_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"teamchat-service/internal/chat"
	"teamchat-service/internal/mocks"
	"teamchat-service/internal/models"
	"teamchat-service/internal/repositories"
)

func TestAuthorizeMember(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	authority := chat.NewAuthority(groups)

	orgID := uuid.New()
	groupID := uuid.New()
	userID := uuid.New()

	groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{ID: groupID, OrgID: orgID}, nil).Once()
	groups.On("IsMember", mock.Anything, groupID, userID).Return(true, nil).Once()

	require.NoError(t, authority.Authorize(context.Background(), userID, orgID, groupID))
	groups.AssertExpectations(t)
}

func TestAuthorizeGroupMissing(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	authority := chat.NewAuthority(groups)

	groupID := uuid.New()
	groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{}, repositories.ErrGroupNotFound).Once()

	err := authority.Authorize(context.Background(), uuid.New(), uuid.New(), groupID)
	require.ErrorIs(t, err, chat.ErrGroupNotFound)
	groups.AssertExpectations(t)
}

// A cross-tenant probe must be indistinguishable from a group that does not
// exist, and the membership lookup must never run.
func TestAuthorizeCrossOrgIndistinguishable(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	authority := chat.NewAuthority(groups)

	groupID := uuid.New()
	groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{ID: groupID, OrgID: uuid.New()}, nil).Once()

	crossOrgErr := authority.Authorize(context.Background(), uuid.New(), uuid.New(), groupID)
	require.ErrorIs(t, crossOrgErr, chat.ErrGroupNotFound)

	missing := uuid.New()
	groups.On("GetGroup", mock.Anything, missing).Return(models.Group{}, repositories.ErrGroupNotFound).Once()
	missingErr := authority.Authorize(context.Background(), uuid.New(), uuid.New(), missing)

	require.Equal(t, missingErr, crossOrgErr)
	groups.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
	groups.AssertExpectations(t)
}

func TestAuthorizeNotAMember(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	authority := chat.NewAuthority(groups)

	orgID := uuid.New()
	groupID := uuid.New()
	userID := uuid.New()

	groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{ID: groupID, OrgID: orgID}, nil).Once()
	groups.On("IsMember", mock.Anything, groupID, userID).Return(false, nil).Once()

	err := authority.Authorize(context.Background(), userID, orgID, groupID)
	require.ErrorIs(t, err, chat.ErrNotAMember)
	groups.AssertExpectations(t)
}
