package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidanova-church/portal/internal/i18n"
	"github.com/vidanova-church/portal/internal/platform/httpx"
	"github.com/vidanova-church/portal/internal/rbac"
)

func guardedRequest(t *testing.T, mw func(http.Handler) http.Handler, header, acceptLanguage string) (*httptest.ResponseRecorder, *Principal) {
	t.Helper()

	var seen *Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			seen = &p
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	rec := httptest.NewRecorder()
	i18n.Middleware(mw(inner)).ServeHTTP(rec, req)
	return rec, seen
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorEnvelope {
	t.Helper()
	var env httpx.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRequireCapabilityEnvelopes(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleLeader)
		mw := Middleware{Gateway: gw}
		rec, _ := guardedRequest(t, mw.RequireCapability(rbac.CapManageVisitors), "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, httpx.TypeUnauthorized, env.Error.Type)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		assert.Equal(t, "Cabeçalho de autorização ausente", env.Error.Message)
		assert.NotEmpty(t, env.Error.RequestID)
		assert.NotEmpty(t, env.Error.Timestamp)
	})

	t.Run("malformed header in english", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleLeader)
		mw := Middleware{Gateway: gw}
		rec, _ := guardedRequest(t, mw.RequireCapability(rbac.CapManageVisitors), "NotBearer", "en-US")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, httpx.TypeUnauthorized, env.Error.Type)
		assert.Equal(t, "Authorization header is malformed", env.Error.Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleLeader)
		mw := Middleware{Gateway: gw}
		rec, _ := guardedRequest(t, mw.RequireCapability(rbac.CapManageVisitors), "Bearer wrong", "en")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Invalid or expired credentials", env.Error.Message)
	})

	t.Run("role not found maps to forbidden", func(t *testing.T) {
		verifier := &stubVerifier{tokens: map[string]Identity{"tok": {ID: uuid.New()}}}
		gw := NewGateway(verifier, &stubRoles{})
		mw := Middleware{Gateway: gw}
		rec, _ := guardedRequest(t, mw.RequireCapability(rbac.CapProfile), "Bearer tok", "en")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, httpx.TypeForbidden, env.Error.Type)
		assert.Equal(t, "User role not found", env.Error.Message)
	})

	t.Run("capability denied", func(t *testing.T) {
		gw, _ := newTestGateway(rbac.RoleMember)
		mw := Middleware{Gateway: gw}
		rec, seen := guardedRequest(t, mw.RequireCapability(rbac.CapAdminPanel), "Bearer good-token", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, seen, "handler must not run after a failed guard")
		env := decodeEnvelope(t, rec)
		assert.Equal(t, httpx.TypeForbidden, env.Error.Type)
	})

	t.Run("granted stores principal", func(t *testing.T) {
		gw, userID := newTestGateway(rbac.RoleLeader)
		mw := Middleware{Gateway: gw}
		rec, seen := guardedRequest(t, mw.RequireCapability(rbac.CapKidsCheckin), "Bearer good-token", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, userID, seen.Identity.ID)
		assert.Equal(t, rbac.RoleLeader, seen.Role)
	})
}

func TestRequireRole(t *testing.T) {
	gw, _ := newTestGateway(rbac.RoleTeacher)
	mw := Middleware{Gateway: gw}

	rec, _ := guardedRequest(t, mw.RequireRole(rbac.RoleLeader), "Bearer good-token", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, seen := guardedRequest(t, mw.RequireRole(rbac.RoleTeacher), "Bearer good-token", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
}
