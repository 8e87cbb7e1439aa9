package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named channel scoped to one organization. Names are unique
// within the organization, not globally.
type Group struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrgID     uuid.UUID `db:"org_id" json:"org_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
