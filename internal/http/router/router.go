// Package router arma el árbol de rutas HTTP sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	authctl "github.com/dropDatabas3/chasqui/internal/http/controllers/auth"
	healthctl "github.com/dropDatabas3/chasqui/internal/http/controllers/health"
	taskctl "github.com/dropDatabas3/chasqui/internal/http/controllers/tasks"
	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	mw "github.com/dropDatabas3/chasqui/internal/http/middlewares"
)

// Deps agrupa lo que el router necesita para montar las rutas.
type Deps struct {
	Auth     *authctl.Controllers
	Tasks    *taskctl.TaskController
	Health   *healthctl.HealthController
	Verifier mw.TokenVerifier
	// Metrics es el handler de /metrics; nil => no se monta.
	Metrics http.Handler
}

// New devuelve el handler raíz con los middlewares globales aplicados.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// orden: request id -> logging -> recover -> metrics -> headers
	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.Health != nil {
		r.Get("/healthz", d.Health.Health)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api", func(api chi.Router) {
		// públicas
		public := api.With(mw.WithNoStore())
		public.Post("/register", d.Auth.Register.Register)
		public.Post("/login", d.Auth.Login.Login)

		// autenticadas
		api.Group(func(p chi.Router) {
			p.Use(mw.RequireAuth(d.Verifier), mw.WithNoStore())

			p.Get("/me", d.Auth.Me.Me)
			p.Get("/roles", d.Auth.Roles.List)

			if d.Tasks != nil {
				p.With(mw.RequirePermission(rbac.PermTaskRead)).Get("/tasks", d.Tasks.List)
				p.With(mw.RequirePermission(rbac.PermTaskCreate)).Post("/tasks", d.Tasks.Create)
				p.With(mw.RequirePermission(rbac.PermTaskUpdate)).Patch("/tasks/{id}", d.Tasks.Complete)
			}
		})
	})

	return r
}
