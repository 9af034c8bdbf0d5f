package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vidanova-church/portal/internal/adminpanel"
	"github.com/vidanova-church/portal/internal/checkin"
	"github.com/vidanova-church/portal/internal/members"
	"github.com/vidanova-church/portal/internal/observability"
	"github.com/vidanova-church/portal/internal/visitors"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	MembersHandler  *members.Handler
	VisitorsHandler *visitors.Handler
	CheckinHandler  *checkin.Handler
	AdminHandler    *adminpanel.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with portal defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.MembersHandler != nil {
			r.Route("/members", params.MembersHandler.MountRoutes)
			r.Route("/me", params.MembersHandler.MountProfileRoutes)
		}
		if params.VisitorsHandler != nil {
			r.Route("/visitors", params.VisitorsHandler.MountRoutes)
		}
		if params.CheckinHandler != nil {
			r.Route("/checkin", params.CheckinHandler.MountRoutes)
		}
		if params.AdminHandler != nil {
			r.Route("/admin", params.AdminHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
