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
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, orgID uuid.UUID, email, passwordHash string, role models.Role) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user in the given organization.
func (r *UserRepo) Create(ctx context.Context, orgID uuid.UUID, email, passwordHash string, role models.Role) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO users (org_id, email, password_hash, role) VALUES ($1, $2, $3, $4)
         RETURNING id, org_id, email, password_hash, role, created_at`,
		orgID, email, passwordHash, role)
	if err != nil {
		return models.User{}, mapUniqueViolation(err)
	}
	return user, nil
}

// GetByEmail fetches a user by its globally unique email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, org_id, email, password_hash, role, created_at FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches a single user.
func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, org_id, email, password_hash, role, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}
