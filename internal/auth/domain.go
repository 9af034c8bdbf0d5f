// Package auth implements the per-route authorization chain: bearer
// extraction, identity resolution against the hosted auth provider, role
// resolution, and the capability check.
package auth

import (
	"errors"

	"github.com/google/uuid"

	"github.com/vidanova-church/portal/internal/rbac"
)

// Identity is the opaque authenticated principal resolved from a bearer
// token. It is created by the external auth provider and never mutated here.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Principal pairs a resolved identity with its single role.
type Principal struct {
	Identity Identity
	Role     rbac.Role
}

// Sentinel failures of the authorization chain. The handler layer maps them
// onto the envelope taxonomy.
var (
	ErrMissingHeader    = errors.New("auth: authorization header missing")
	ErrMalformedHeader  = errors.New("auth: authorization header malformed")
	ErrInvalidToken     = errors.New("auth: token does not resolve to an identity")
	ErrInsufficientRole = errors.New("auth: role does not satisfy requirement")
)
