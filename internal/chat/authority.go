package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"teamchat-service/internal/repositories"
)

// Authority is the single source of truth for tenant isolation. Every room
// join, message send, and history read re-runs this check; the result is
// never cached across a session, so a mid-session revocation is observed by
// the next action.
type Authority struct {
	groups repositories.GroupRepository
}

// NewAuthority constructs an Authority.
func NewAuthority(groups repositories.GroupRepository) *Authority {
	return &Authority{groups: groups}
}

// Authorize determines whether the user may act on the group. A group that
// is absent and a group in another organization produce the same denial.
func (a *Authority) Authorize(ctx context.Context, userID, orgID, groupID uuid.UUID) error {
	group, err := a.groups.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return ErrGroupNotFound
	}
	if err != nil {
		return err
	}
	if group.OrgID != orgID {
		return ErrGroupNotFound
	}

	member, err := a.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotAMember
	}
	return nil
}
