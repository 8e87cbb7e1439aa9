package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"teamchat-service/internal/models"
)

var ErrOrgNameTaken = errors.New("organization name already taken")

// OrgRepository abstracts organization persistence.
type OrgRepository interface {
	CreateWithAdmin(ctx context.Context, orgName, email, passwordHash string) (models.Organization, models.User, error)
}

// OrgRepo is a sqlx implementation of OrgRepository.
type OrgRepo struct {
	db *sqlx.DB
}

// NewOrgRepo constructs an OrgRepo.
func NewOrgRepo(db *sqlx.DB) *OrgRepo {
	return &OrgRepo{db: db}
}

// CreateWithAdmin creates an organization and its first ADMIN user atomically.
// Uniqueness of the org name and the admin email is enforced by the store.
func (r *OrgRepo) CreateWithAdmin(ctx context.Context, orgName, email, passwordHash string) (models.Organization, models.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Organization{}, models.User{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var org models.Organization
	if err = tx.GetContext(ctx, &org,
		`INSERT INTO organizations (name) VALUES ($1) RETURNING id, name, created_at`, orgName); err != nil {
		return models.Organization{}, models.User{}, mapUniqueViolation(err)
	}

	var admin models.User
	if err = tx.GetContext(ctx, &admin,
		`INSERT INTO users (org_id, email, password_hash, role) VALUES ($1, $2, $3, $4)
         RETURNING id, org_id, email, password_hash, role, created_at`,
		org.ID, email, passwordHash, models.RoleAdmin); err != nil {
		return models.Organization{}, models.User{}, mapUniqueViolation(err)
	}

	if err = tx.Commit(); err != nil {
		return models.Organization{}, models.User{}, err
	}
	return org, admin, nil
}

// mapUniqueViolation translates postgres unique-violation errors into the
// package sentinels, leaving everything else untouched.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "organizations_name_key":
		return ErrOrgNameTaken
	case "users_email_key":
		return ErrEmailTaken
	case "groups_org_id_name_key":
		return ErrGroupNameTaken
	default:
		return ErrConflict
	}
}

// ErrConflict covers unique violations on constraints without a dedicated sentinel.
var ErrConflict = errors.New("conflict")
