package visitors

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

// Handler wires the visitor registration endpoints.
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

// Create registers a visitor together with any children records.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		httpx.Fail(w, httpx.TypeUnauthorized, i18n.T(ctx, "auth.invalid_token"), nil)
		return
	}

	var req RegisterVisitorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.invalid_body"), nil)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"), httpx.ValidationDetails(err))
		return
	}

	visitor, err := h.service.Register(ctx, req, principal.Identity.ID)
	if err != nil {
		var partial *PartialFailureError
		switch {
		case errors.As(err, &partial):
			// HTTP 207: the visitor record is durable; only the children
			// step failed. Clients must not retry the whole registration.
			httpx.Fail(w, httpx.TypePartialFailure, i18n.T(ctx, "visitor.partial"), map[string]any{
				"visitorSaved":   true,
				"visitorId":      partial.VisitorID.String(),
				"childrenFailed": true,
				"childError":     partial.Err.Error(),
			})
		case errors.Is(err, ErrDuplicate):
			httpx.Fail(w, httpx.TypeConflict, i18n.T(ctx, "visitor.duplicate"), nil)
		default:
			h.logger.Error("register visitor", slog.Any("error", err))
			httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
				map[string]any{"error": err.Error()})
		}
		return
	}

	httpx.Created(w, visitor)
}

// Show returns one visitor with children.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, httpx.TypeValidation, i18n.T(ctx, "request.validation"),
			map[string]any{"invalidFields": []string{"id"}})
		return
	}

	visitor, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, httpx.TypeNotFound, i18n.T(ctx, "member.not_found"), nil)
			return
		}
		h.logger.Error("get visitor", slog.Any("error", err))
		httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
			map[string]any{"error": err.Error()})
		return
	}
	httpx.OK(w, visitor)
}

// List returns visitors with optional search and paging.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := ListVisitorsRequest{Limit: 50}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
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
		h.logger.Error("list visitors", slog.Any("error", err))
		httpx.Fail(w, httpx.TypeServerError, i18n.T(ctx, "server.unexpected"),
			map[string]any{"error": err.Error()})
		return
	}
	httpx.OK(w, map[string]any{
		"visitors": list,
		"total":    total,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}
