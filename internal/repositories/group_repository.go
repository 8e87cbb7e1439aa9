package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"teamchat-service/internal/models"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrGroupNameTaken = errors.New("group name already exists in this organization")
)

// GroupRepository abstracts group and membership persistence.
type GroupRepository interface {
	Create(ctx context.Context, orgID uuid.UUID, name string) (models.Group, error)
	GetGroup(ctx context.Context, groupID uuid.UUID) (models.Group, error)
	ListForUser(ctx context.Context, userID, orgID uuid.UUID) ([]models.Group, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// Create inserts a group scoped to the organization. Name uniqueness within
// the org is enforced by the store.
func (r *GroupRepo) Create(ctx context.Context, orgID uuid.UUID, name string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`INSERT INTO groups (org_id, name) VALUES ($1, $2)
         RETURNING id, org_id, name, created_at`, orgID, name)
	if err != nil {
		return models.Group{}, mapUniqueViolation(err)
	}
	return group, nil
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID uuid.UUID) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`SELECT id, org_id, name, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// ListForUser returns groups the user is a member of, filtered to the
// caller's organization.
func (r *GroupRepo) ListForUser(ctx context.Context, userID, orgID uuid.UUID) ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.SelectContext(ctx, &groups,
		`SELECT g.id, g.org_id, g.name, g.created_at
         FROM groups g
         INNER JOIN group_members gm ON gm.group_id = g.id
         WHERE gm.user_id=$1 AND g.org_id=$2
         ORDER BY g.created_at ASC`, userID, orgID)
	return groups, err
}

// IsMember checks for a membership row.
func (r *GroupRepo) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id=$1 AND user_id=$2)`, groupID, userID)
	return exists, err
}

// AddMember creates a membership row. Adding an existing member is a no-op;
// concurrent duplicate inserts are resolved by the store.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)
         ON CONFLICT (user_id, group_id) DO NOTHING`, groupID, userID)
	return err
}
