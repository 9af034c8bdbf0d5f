package members

import (
	"github.com/go-chi/chi/v5"

	"github.com/vidanova-church/portal/internal/rbac"
)

// MountRoutes registers the directory endpoints behind manage-members.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(rbac.CapManageMembers))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.Patch("/{id}", h.Update)
	})
}

// MountProfileRoutes registers the self-service profile endpoint. Every role
// carries the profile capability, so any authenticated principal passes.
func (h *Handler) MountProfileRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(rbac.CapProfile))
		r.Get("/", h.Me)
	})
}
