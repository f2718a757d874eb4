package branches

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Handler wires branch master data endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authz:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers branch routes. Mutations are settings-level
// operations and therefore superadmin-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.With(h.authz.RequireBranchAccess("branchID")).Get("/{branchID}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(authz.RoleSuperadmin))
		r.Post("/", h.create)
		r.Put("/{branchID}", h.update)
		r.Delete("/{branchID}", h.deactivate)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "authentication required", "AUTH_REQUIRED")
		return
	}
	list, err := h.service.ListForUser(r.Context(), *user)
	if err != nil {
		h.logger.Error("list branches", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"branches": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		httpx.ProblemCode(w, http.StatusUnauthorized, "Unauthorized", "authentication required", "AUTH_REQUIRED")
		return
	}
	branch, err := h.service.Get(r.Context(), *user, chi.URLParam(r, "branchID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, branch)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form BranchForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
		return
	}
	branch, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.logger.Error("create branch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, branch)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form BranchForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
		return
	}
	branch, err := h.service.Update(r.Context(), chi.URLParam(r, "branchID"), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, branch)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "branchID")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
