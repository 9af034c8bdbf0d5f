package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vidanova-church/portal/internal/i18n"
	"github.com/vidanova-church/portal/internal/platform/httpx"
	"github.com/vidanova-church/portal/internal/rbac"
)

// Middleware wires the gateway into chi route guards. Failures terminate the
// request immediately with the envelope matching the failed chain step; there
// is no backward transition.
type Middleware struct {
	Gateway *Gateway
	Logger  *slog.Logger
}

// RequireCapability guards a route group with one capability from the table.
// The authorized principal is stored in context for handlers.
func (m Middleware) RequireCapability(cap rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := m.Gateway.AuthorizeCapability(r.Context(), r.Header.Get("Authorization"), cap)
			if err != nil {
				m.respond(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole guards a route group with a literal required role; admin always
// passes.
func (m Middleware) RequireRole(role rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := m.Gateway.Authorize(r.Context(), r.Header.Get("Authorization"), role)
			if err != nil {
				m.respond(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func (m Middleware) respond(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrMissingHeader):
		httpx.Fail(w, httpx.TypeUnauthorized, i18n.T(ctx, "auth.header_missing"), nil)
	case errors.Is(err, ErrMalformedHeader):
		httpx.Fail(w, httpx.TypeUnauthorized, i18n.T(ctx, "auth.header_malformed"), nil)
	case errors.Is(err, ErrInvalidToken):
		httpx.Fail(w, httpx.TypeUnauthorized, i18n.T(ctx, "auth.invalid_token"), nil)
	case errors.Is(err, rbac.ErrRoleNotFound):
		httpx.Fail(w, httpx.TypeForbidden, i18n.T(ctx, "auth.role_not_found"), nil)
	case errors.Is(err, ErrInsufficientRole):
		httpx.Fail(w, httpx.TypeForbidden, i18n.T(ctx, "auth.insufficient"), nil)
	default:
		if m.Logger != nil {
			m.Logger.Error("authorization chain", slog.Any("error", err))
		}
		httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
			map[string]any{"error": err.Error()})
	}
}
