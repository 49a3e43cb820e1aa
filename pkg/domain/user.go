package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User owns zero or more cards. Only ID and Role participate in the core
// transfer and scoping logic; the rest supports authentication.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Actor is the authenticated caller identity passed into every access-scoping
// decision, instead of re-deriving role booleans from ambient context.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor has unrestricted visibility and mutation
// rights over all cards.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may see resources owned by ownerID.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == ownerID
}
