package visitors

import (
	"github.com/go-chi/chi/v5"

	"github.com/vidanova-church/portal/internal/rbac"
)

// MountRoutes registers visitor endpoints behind the manage-visitors
// capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(rbac.CapManageVisitors))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.Post("/", h.Create)
	})
}
