package members

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vidanova-church/portal/internal/auth"
	"github.com/vidanova-church/portal/internal/i18n"
	"github.com/vidanova-church/portal/internal/platform/httpx"
)

// Handler wires the member directory endpoints.
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

// List returns directory entries.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := ListMembersRequest{Limit: 50}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		val := active == "true"
		req.IsActive = &val
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	list, total, err := h.service.List(ctx, req)
	if err != nil {
		h.logger.Error("list members", slog.Any("error", err))
		httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
			map[string]any{"error": err.Error()})
		return
	}
	httpx.OK(w, map[string]any{
		"members": list,
		"total":   total,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// Show returns one member by id.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"),
			map[string]any{"invalidFields": []string{"id"}})
		return
	}

	member, err := h.service.Get(ctx, id)
	if err != nil {
		h.respondLookupError(w, r, err, "get member")
		return
	}
	httpx.OK(w, member)
}

// Update applies a partial update to a member.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"),
			map[string]any{"invalidFields": []string{"id"}})
		return
	}

	var req UpdateMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.invalid_body"), nil)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"), httpx.ValidationDetails(err))
		return
	}

	member, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.respondLookupError(w, r, err, "update member")
		return
	}
	httpx.OK(w, member)
}

// Me returns the profile of the authenticated principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		httpx.Fail(w, httpx.TypeUnauthorized, i18n.T(ctx, "auth.invalid_token"), nil)
		return
	}

	member, err := h.service.ProfileFor(ctx, principal.Identity.ID)
	if err != nil {
		h.respondLookupError(w, r, err, "profile")
		return
	}
	httpx.OK(w, map[string]any{
		"member": member,
		"role":   principal.Role,
	})
}

func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, err error, op string) {
	ctx := r.Context()
	if errors.Is(err, ErrNotFound) {
		httpx.Fail(w, httpx.TypeNotFound, i18n.T(ctx, "member.not_found"), nil)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
		map[string]any{"error": err.Error()})
}
