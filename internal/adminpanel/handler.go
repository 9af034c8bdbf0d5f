// Package adminpanel serves the small overview endpoint behind the
// admin-panel capability (admins and trainees per the capability table).
package adminpanel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidanova-church/portal/internal/auth"
	"github.com/vidanova-church/portal/internal/i18n"
	"github.com/vidanova-church/portal/internal/platform/db"
	"github.com/vidanova-church/portal/internal/platform/httpx"
	"github.com/vidanova-church/portal/internal/rbac"
)

// Overview aggregates the portal counters shown on the admin landing page.
type Overview struct {
	Members       int    `json:"members"`
	ActiveMembers int    `json:"activeMembers"`
	Visitors      int    `json:"visitors"`
	CheckinsToday int    `json:"checkinsToday"`
	GeneratedAt   string `json:"generatedAt"`
}

// Repository reads the overview counters.
type Repository interface {
	Overview(ctx context.Context) (Overview, error)
}

// PGRepository implements Repository through the elevated access path.
type PGRepository struct {
	pool        *pgxpool.Pool
	serviceRole string
}

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool, serviceRole string) *PGRepository {
	return &PGRepository{pool: pool, serviceRole: serviceRole}
}

// Overview counts members, visitors and today's check-ins.
func (r *PGRepository) Overview(ctx context.Context) (Overview, error) {
	var ov Overview
	err := db.Elevated(ctx, r.pool, r.serviceRole, func(conn *pgxpool.Conn) error {
		const query = `
			SELECT
				(SELECT COUNT(*) FROM members),
				(SELECT COUNT(*) FROM members WHERE is_active),
				(SELECT COUNT(*) FROM visitors),
				(SELECT COUNT(*) FROM kids_checkins WHERE service_date = CURRENT_DATE)`
		return conn.QueryRow(ctx, query).Scan(&ov.Members, &ov.ActiveMembers, &ov.Visitors, &ov.CheckinsToday)
	})
	if err != nil {
		return Overview{}, fmt.Errorf("adminpanel: overview: %w", err)
	}
	ov.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	return ov, nil
}

var _ Repository = (*PGRepository)(nil)

// Handler wires the overview endpoint.
type Handler struct {
	logger *slog.Logger
	repo   Repository
	authz  auth.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Repository, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, authz: authz}
}

// MountRoutes registers the overview route behind admin-panel.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(rbac.CapAdminPanel))
		r.Get("/overview", h.Overview)
	})
}

// Overview returns the portal counters.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ov, err := h.repo.Overview(ctx)
	if err != nil {
		h.logger.Error("admin overview", slog.Any("error", err))
		httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
			map[string]any{"error": err.Error()})
		return
	}
	httpx.OK(w, ov)
}
