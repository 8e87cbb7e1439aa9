package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary. Every other entity belongs to exactly
// one organization, directly or through its group.
type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
