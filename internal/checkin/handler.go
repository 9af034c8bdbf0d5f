package checkin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vidanova-church/portal/internal/auth"
	"github.com/vidanova-church/portal/internal/i18n"
	"github.com/vidanova-church/portal/internal/platform/httpx"
	"github.com/vidanova-church/portal/internal/rbac"
)

// Handler wires the kids check-in endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, authz auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authz:     authz,
		validator: httpx.NewValidator(),
	}
}

// MountRoutes registers check-in endpoints behind the kids-checkin
// capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCapability(rbac.CapKidsCheckin))
		r.Post("/", h.Create)
		r.Get("/", h.List)
	})
}

// Create records one child attendance.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		httpx.Fail(w, httpx.TypeUnauthorized, i18n.T(ctx, "auth.invalid_token"), nil)
		return
	}

	var req CheckinRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.invalid_body"), nil)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"), httpx.ValidationDetails(err))
		return
	}

	childID, _ := uuid.Parse(req.ChildID)
	var serviceDate *time.Time
	if req.ServiceDate != nil {
		if parsed, err := time.Parse("2006-01-02", *req.ServiceDate); err == nil {
			serviceDate = &parsed
		}
	}

	rec, err := h.service.CheckIn(ctx, childID, serviceDate, principal.Identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrChildNotFound):
			httpx.Fail(w, httpx.TypeNotFound, i18n.T(ctx, "checkin.child_missing"), nil)
		case errors.Is(err, ErrAlreadyIn):
			httpx.Fail(w, httpx.TypeConflict, i18n.T(ctx, "request.validation"),
				map[string]any{"childId": req.ChildID, "reason": "already_checked_in"})
		default:
			h.logger.Error("checkin", slog.Any("error", err))
			httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
				map[string]any{"error": err.Error()})
		}
		return
	}
	httpx.Created(w, rec)
}

// List returns the attendance for a date (today by default).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"),
				map[string]any{"invalidFields": []string{"date"}})
			return
		}
		date = parsed
	}

	records, err := h.service.ListByDate(ctx, date)
	if err != nil {
		h.logger.Error("list checkins", slog.Any("error", err))
		httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
			map[string]any{"error": err.Error()})
		return
	}
	httpx.OK(w, map[string]any{
		"date":     date.Format("2006-01-02"),
		"checkins": records,
	})
}
