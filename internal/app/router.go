package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/msousapenha/clinica-crm/internal/auth"
	"github.com/msousapenha/clinica-crm/internal/dashboard"
	"github.com/msousapenha/clinica-crm/internal/finance"
	"github.com/msousapenha/clinica-crm/internal/inventory"
	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/internal/observability"
	"github.com/msousapenha/clinica-crm/internal/patients"
	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/procedures"
	"github.com/msousapenha/clinica-crm/internal/schedule"
	"github.com/msousapenha/clinica-crm/internal/staff"
	"github.com/msousapenha/clinica-crm/internal/users"
	"github.com/msousapenha/clinica-crm/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    auth.Middleware
	DashboardHandler  *dashboard.Handler
	ScheduleHandler   *schedule.Handler
	PatientsHandler   *patients.Handler
	FinanceHandler    *finance.Handler
	InventoryHandler  *inventory.Handler
	ProceduresHandler *procedures.Handler
	StaffHandler      *staff.Handler
	UsersHandler      *users.Handler
	JobsHandler       *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with the application defaults.
// Every business route sits behind the bearer token check, and each
// module subtree is additionally gated by the principal's permissions.
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
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAuth)
			params.AuthHandler.MountProtectedRoutes(r)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuth)

		gate := params.AuthMiddleware.RequireModule
		r.With(gate(modules.Dashboard)).Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.With(gate(modules.Agenda)).Route("/agendamentos", params.ScheduleHandler.MountRoutes)
		r.With(gate(modules.Pacientes)).Route("/pacientes", params.PatientsHandler.MountRoutes)
		r.With(gate(modules.Financeiro)).Route("/transacoes", params.FinanceHandler.MountRoutes)
		r.With(gate(modules.Estoque)).Route("/estoque", params.InventoryHandler.MountRoutes)
		r.With(gate(modules.Procedimentos)).Route("/procedimentos", params.ProceduresHandler.MountRoutes)
		r.With(gate(modules.Equipe)).Route("/profissionais", params.StaffHandler.MountRoutes)
		r.With(gate(modules.Usuarios)).Route("/usuarios", params.UsersHandler.MountRoutes)

		if params.JobsHandler != nil {
			r.With(gate(modules.Usuarios)).Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
