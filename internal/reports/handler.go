package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Handler wires reporting endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: guard}
}

// MountRoutes registers reporting routes behind the view_reports
// permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authz.RequirePermission(authz.PermViewReports))

	r.Get("/summary", h.summary)
	r.Get("/revenue-by-branch", h.revenueByBranch)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	summary, err := h.service.Summary(r.Context(), *user)
	if err != nil {
		h.logger.Error("kpi summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) revenueByBranch(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	rows, err := h.service.RevenueByBranch(r.Context(), *user)
	if err != nil {
		h.logger.Error("revenue by branch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"branches": rows})
}
