package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/horizonapply/horizon/internal/applications"
	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/guardian"
	"github.com/horizonapply/horizon/internal/notes"
	"github.com/horizonapply/horizon/internal/observability"
	"github.com/horizonapply/horizon/internal/rbac"
	"github.com/horizonapply/horizon/internal/students"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	Enforce             rbac.Middleware
	AuthHandler         *auth.Handler
	ApplicationsHandler *applications.Handler
	NotesHandler        *notes.Handler
	GuardianHandler     *guardian.Handler
	StudentsHandler     *students.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Horizon defaults. Every protected
// route names the (resource, action) it needs and how the authorization
// context is derived; the enforcement middleware does the rest.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
	})

	enforce := params.Enforce

	r.Route("/applications", func(r chi.Router) {
		r.With(enforce.Require("applications", rbac.ActionRead,
			rbac.QueryContext("studentId", "studentId"))).Get("/", params.ApplicationsHandler.HandleList)
		r.With(enforce.Require("applications", rbac.ActionCreate, nil)).
			Post("/", params.ApplicationsHandler.HandleCreate)

		// Item routes authorize in the handler: the owner is a fact of the
		// stored row, so the decision runs after the row is loaded.
		r.Route("/{applicationID}", func(r chi.Router) {
			r.Use(enforce.Authenticate)
			r.Get("/", params.ApplicationsHandler.HandleGet)
			r.Put("/", params.ApplicationsHandler.HandleUpdate)
			r.Delete("/", params.ApplicationsHandler.HandleDelete)
		})
	})

	r.Route("/students/{studentID}/profile", func(r chi.Router) {
		r.With(enforce.Require("profile", rbac.ActionRead,
			rbac.URLParamContext("studentId", "studentID"))).Get("/", params.StudentsHandler.HandleGet)
		r.With(enforce.Require("profile", rbac.ActionUpdate,
			rbac.URLParamContext("studentId", "studentID"))).Put("/", params.StudentsHandler.HandleUpdate)
	})

	r.Route("/parent", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.With(enforce.Require("parentNotes", rbac.ActionRead,
				rbac.SelfContext("parentId"))).Get("/", params.NotesHandler.HandleList)
			r.With(enforce.Require("parentNotes", rbac.ActionCreate, nil)).
				Post("/", params.NotesHandler.HandleCreate)
			r.Route("/{noteID}", func(r chi.Router) {
				r.Use(enforce.Authenticate)
				r.Put("/", params.NotesHandler.HandleUpdate)
				r.Delete("/", params.NotesHandler.HandleDelete)
			})
		})

		r.Route("/students", func(r chi.Router) {
			r.With(enforce.Require("parentStudents", rbac.ActionRead,
				rbac.SelfContext("parentId"))).Get("/", params.GuardianHandler.HandleList)
			r.With(enforce.Require("parentStudents", rbac.ActionCreate, nil)).
				Post("/", params.GuardianHandler.HandleCreate)
			r.With(enforce.Require("parentStudents", rbac.ActionDelete,
				rbac.SelfContext("parentId"))).Delete("/{studentID}", params.GuardianHandler.HandleDelete)
		})
	})

	return r
}
