package models

import (
	"time"
)

// Role is the closed set of participant roles. Roles are compared as typed
// constants, never as raw request strings.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleManager     Role = "manager"
	RoleAdmin       Role = "admin"
	// RoleDonor marks an identity created only to anchor donations. Donor
	// records carry no credential and cannot log in.
	RoleDonor Role = "donor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParticipant, RoleManager, RoleAdmin, RoleDonor:
		return true
	}
	return false
}

// Participant is the root identity. IDs are allocated explicitly by
// identity.NextID rather than by the database; email is the business key.
type Participant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	// Opaque credential, compared verbatim at login. Empty for donor records.
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
