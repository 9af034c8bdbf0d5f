package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vidanova-church/portal/internal/rbac"
)

// Gateway runs the authorization chain shared by every restricted route:
// bearer extraction, identity resolution, role resolution, role check. It has
// no hidden state; calling it twice with the same token yields the same
// principal absent an external role change.
type Gateway struct {
	verifier TokenVerifier
	roles    rbac.Store
}

// NewGateway constructs a Gateway.
func NewGateway(verifier TokenVerifier, roles rbac.Store) *Gateway {
	return &Gateway{verifier: verifier, roles: roles}
}

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>".
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authorize resolves the header to a principal and enforces requiredRole when
// given. Admin satisfies any requirement. Pass an empty requiredRole to only
// authenticate.
func (g *Gateway) Authorize(ctx context.Context, authHeader string, requiredRole rbac.Role) (Principal, error) {
	token, err := ParseBearer(authHeader)
	if err != nil {
		return Principal{}, err
	}

	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return Principal{}, ErrInvalidToken
		}
		return Principal{}, fmt.Errorf("auth: resolve identity: %w", err)
	}

	role, err := g.roles.RoleFor(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, rbac.ErrRoleNotFound) {
			return Principal{}, rbac.ErrRoleNotFound
		}
		return Principal{}, fmt.Errorf("auth: resolve role: %w", err)
	}

	if !role.Satisfies(requiredRole) {
		return Principal{}, ErrInsufficientRole
	}

	return Principal{Identity: identity, Role: role}, nil
}

// AuthorizeCapability runs the chain and checks the capability table instead
// of a literal role. Route guards use this so the table in rbac stays the
// single authorization source.
func (g *Gateway) AuthorizeCapability(ctx context.Context, authHeader string, cap rbac.Capability) (Principal, error) {
	principal, err := g.Authorize(ctx, authHeader, "")
	if err != nil {
		return Principal{}, err
	}
	if !principal.Role.Can(cap) {
		return Principal{}, ErrInsufficientRole
	}
	return principal, nil
}
