package chat

import "errors"

var (
	// ErrEmptyContent rejects whitespace-only or empty message content.
	ErrEmptyContent = errors.New("message content is required")

	// ErrGroupNotFound denies access to a group. A group in another
	// organization is reported exactly the same as a group that does not
	// exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrNotAMember denies a same-org user with no membership row.
	ErrNotAMember = errors.New("you are not a member of this group")
)
