package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/auth"
	"github.com/linenflow/linenflow/internal/branches"
	"github.com/linenflow/linenflow/internal/customers"
	"github.com/linenflow/linenflow/internal/finance"
	"github.com/linenflow/linenflow/internal/linen"
	"github.com/linenflow/linenflow/internal/orders"
	"github.com/linenflow/linenflow/internal/reports"
	"github.com/linenflow/linenflow/internal/users"
	"github.com/linenflow/linenflow/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthService *auth.Service

	AuthHandler     *auth.Handler
	BranchHandler   *branches.Handler
	UserHandler     *users.Handler
	CustomerHandler *customers.Handler
	LinenHandler    *linen.Handler
	OrderHandler    *orders.Handler
	FinanceHandler  *finance.Handler
	ReportHandler   *reports.Handler
	AuditHandler    *audit.Handler
	JobHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with the full API surface under
// /v1. Everything except login/refresh and the health probe sits
// behind bearer authentication.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	authenticator := auth.Authenticator(params.AuthService, params.Logger)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(LoginRateLimiter())
				params.AuthHandler.MountRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticator)
				params.AuthHandler.MountProtectedRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Route("/branches", params.BranchHandler.MountRoutes)
			r.Route("/users", params.UserHandler.MountRoutes)
			r.Route("/customers", params.CustomerHandler.MountRoutes)
			r.Route("/linen-items", params.LinenHandler.MountRoutes)
			r.Route("/job-orders", params.OrderHandler.MountRoutes)
			r.Route("/invoices", params.FinanceHandler.MountInvoiceRoutes)
			r.Route("/expenses", params.FinanceHandler.MountExpenseRoutes)
			r.Route("/reports", params.ReportHandler.MountRoutes)
			r.Route("/activity-logs", params.AuditHandler.MountRoutes)
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
