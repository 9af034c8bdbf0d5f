package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidanova-church/portal/internal/rbac"
	_ "github.com/vidanova-church/portal/testing"
)

type stubVerifier struct {
	tokens map[string]Identity
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if s.err != nil {
		return Identity{}, s.err
	}
	identity, ok := s.tokens[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}

type stubRoles struct {
	roles map[uuid.UUID]rbac.Role
	err   error
}

func (s *stubRoles) RoleFor(ctx context.Context, userID uuid.UUID) (rbac.Role, error) {
	if s.err != nil {
		return "", s.err
	}
	role, ok := s.roles[userID]
	if !ok {
		return "", rbac.ErrRoleNotFound
	}
	return role, nil
}

func newTestGateway(role rbac.Role) (*Gateway, uuid.UUID) {
	userID := uuid.New()
	verifier := &stubVerifier{tokens: map[string]Identity{
		"good-token": {ID: userID, Email: "ana@vidanova.org"},
	}}
	roles := &stubRoles{roles: map[uuid.UUID]rbac.Role{userID: role}}
	return NewGateway(verifier, roles), userID
}

func TestParseBearer(t *testing.T) {
	token, err := ParseBearer("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = ParseBearer("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token, "scheme comparison is case-insensitive")

	_, err = ParseBearer("")
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = ParseBearer("   ")
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = ParseBearer("abc")
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = ParseBearer("Basic abc")
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = ParseBearer("Bearer ")
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestAuthorizeChain(t *testing.T) {
	ctx := context.Background()

	t.Run("missing header", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleMember)
		_, err := gw.Authorize(ctx, "", "")
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("malformed header", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleMember)
		_, err := gw.Authorize(ctx, "Token xyz", "")
		assert.ErrorIs(t, err, ErrMalformedHeader)
	})

	t.Run("invalid token", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleMember)
		_, err := gw.Authorize(ctx, "Bearer bad-token", "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("role not assigned", func(t *testing.T) {
		userID := uuid.New()
		verifier := &stubVerifier{tokens: map[string]Identity{"tok": {ID: userID}}}
		gw := NewGateway(verifier, &stubRoles{roles: map[uuid.UUID]rbac.Role{}})
		_, err := gw.Authorize(ctx, "Bearer tok", "")
		assert.ErrorIs(t, err, rbac.ErrRoleNotFound)
	})

	t.Run("insufficient role", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleTeacher)
		_, err := gw.Authorize(ctx, "Bearer good-token", rbac.RoleAdmin)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("exact role passes", func(t *testing.T) {
		gw, userID := newTestGateway(rbac.RoleTeacher)
		principal, err := gw.Authorize(ctx, "Bearer good-token", rbac.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, userID, principal.Identity.ID)
		assert.Equal(t, rbac.RoleTeacher, principal.Role)
	})

	t.Run("admin satisfies every requirement", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleAdmin)
		for _, required := range rbac.Roles() {
			_, err := gw.Authorize(ctx, "Bearer good-token", required)
			assert.NoError(t, err, "admin vs %s", required)
		}
	})

	t.Run("verifier failure wraps", func(t *testing.T) {
		boom := errors.New("provider unreachable")
		gw := NewGateway(&stubVerifier{err: boom}, &stubRoles{})
		_, err := gw.Authorize(ctx, "Bearer tok", "")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthorizeIsRepeatable(t *testing.T) {
	gw, userID := newTestGateway(rbac.RoleLeader)
	ctx := context.Background()

	first, err := gw.Authorize(ctx, "Bearer good-token", rbac.RoleLeader)
	require.NoError(t, err)
	second, err := gw.Authorize(ctx, "Bearer good-token", rbac.RoleLeader)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, userID, second.Identity.ID)
}

func TestAuthorizeCapability(t *testing.T) {
	ctx := context.Background()

	t.Run("granted", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleLeader)
		principal, err := gw.AuthorizeCapability(ctx, "Bearer good-token", rbac.CapManageVisitors)
		require.NoError(t, err)
		assert.Equal(t, rbac.RoleLeader, principal.Role)
	})

	t.Run("denied", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleMember)
		_, err := gw.AuthorizeCapability(ctx, "Bearer good-token", rbac.CapManageVisitors)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("trainee admin panel", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleTrainee)
		_, err := gw.AuthorizeCapability(ctx, "Bearer good-token", rbac.CapAdminPanel)
		assert.NoError(t, err)
		_, err = gw.AuthorizeCapability(ctx, "Bearer good-token", rbac.CapKidsCheckin)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})
}
