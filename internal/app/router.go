package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Bilalsajai1/envProject-sub000/internal/applications"
	"github.com/Bilalsajai1/envProject-sub000/internal/auth"
	"github.com/Bilalsajai1/envProject-sub000/internal/authz"
	"github.com/Bilalsajai1/envProject-sub000/internal/environments"
	"github.com/Bilalsajai1/envProject-sub000/internal/envtypes"
	"github.com/Bilalsajai1/envProject-sub000/internal/menus"
	"github.com/Bilalsajai1/envProject-sub000/internal/observability"
	"github.com/Bilalsajai1/envProject-sub000/internal/profiles"
	"github.com/Bilalsajai1/envProject-sub000/internal/projects"
	"github.com/Bilalsajai1/envProject-sub000/internal/shared"
	"github.com/Bilalsajai1/envProject-sub000/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	SessionManager      *shared.SessionManager
	Authenticator       auth.Authenticator
	AuthHandler         *auth.Handler
	EnvTypesHandler     *envtypes.Handler
	ProjectsHandler     *projects.Handler
	EnvironmentsHandler *environments.Handler
	ApplicationsHandler *applications.Handler
	MenusHandler        *menus.Handler
	UsersHandler        *users.Handler
	ProfilesHandler     *profiles.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Authenticator:  params.Authenticator,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	guard := authz.Middleware{Logger: params.Logger}

	r.Route("/api", func(r chi.Router) {
		r.Use(guard.RequireIdentity)

		r.Get("/me", params.AuthHandler.Me)
		r.Get("/me/permissions", params.AuthHandler.Me)
		r.Get("/auth/context", params.AuthHandler.AuthContext)

		r.Route("/projects", params.ProjectsHandler.MountRoutes)
		r.Route("/environments", params.EnvironmentsHandler.MountRoutes)
		r.Route("/applications", params.ApplicationsHandler.MountRoutes)

		// Reference and administration surfaces are admin only.
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin)
			r.Route("/environment-types", params.EnvTypesHandler.MountRoutes)
			r.Route("/menus", params.MenusHandler.MountRoutes)
			r.Route("/users", params.UsersHandler.MountRoutes)
			r.Route("/profiles", params.ProfilesHandler.MountRoutes)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
