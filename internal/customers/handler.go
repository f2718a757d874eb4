package customers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Handler wires customer endpoints.
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

// MountRoutes registers customer routes with per-action permission
// gates.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/", h.list)
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/{customerID}", h.get)
	r.With(h.authz.RequirePermission(authz.PermCreate)).Post("/", h.create)
	r.With(h.authz.RequirePermission(authz.PermUpdate)).Put("/{customerID}", h.update)
	r.With(h.authz.RequirePermission(authz.PermDelete)).Delete("/{customerID}", h.deactivate)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	customers, err := h.service.ListForUser(r.Context(), *user)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": customers})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	customer, err := h.service.Get(r.Context(), *user, chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
		return
	}
	customer, err := h.service.Create(r.Context(), *user, form)
	if err != nil {
		h.logger.Error("create customer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
		return
	}
	customer, err := h.service.Update(r.Context(), *user, chi.URLParam(r, "customerID"), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if err := h.service.Deactivate(r.Context(), *user, chi.URLParam(r, "customerID")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
