package auth

import (
	"errors"

	"github.com/ella-rises/membership-api/internal/models"
)

// Capability is a named level of access a route requires.
type Capability string

const (
	// CapabilityAuthenticated requires any resolved session identity.
	CapabilityAuthenticated Capability = "authenticated"
	// CapabilityElevated requires a manager or admin identity.
	CapabilityElevated Capability = "elevated"
)

// Identity is the request-scoped resolved session identity. Core operations
// receive it explicitly; there is no ambient session state.
type Identity struct {
	ParticipantID uint
	Email         string
	Role          models.Role
}

var (
	// ErrUnauthenticated means no session identity was presented. Callers
	// redirect to the login entry point.
	ErrUnauthenticated = errors.New("no session identity")
	// ErrForbidden means the identity's role does not grant the capability.
	// Callers respond 403 with no redirect.
	ErrForbidden = errors.New("role does not grant capability")
)

// roleCapabilities is the explicit role -> capability-set mapping. A role
// absent from this map (including a corrupted role string) grants nothing.
var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleParticipant: {CapabilityAuthenticated: true},
	models.RoleManager:     {CapabilityAuthenticated: true, CapabilityElevated: true},
	models.RoleAdmin:       {CapabilityAuthenticated: true, CapabilityElevated: true},
	models.RoleDonor:       {CapabilityAuthenticated: true},
}

// Decide is the access gate applied before every mutation. It never
// partially applies: either the capability is granted or the request stops.
func Decide(identity *Identity, capability Capability) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if roleCapabilities[identity.Role][capability] {
		return nil
	}
	return ErrForbidden
}
