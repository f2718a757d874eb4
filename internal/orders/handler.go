package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Handler wires job order endpoints.
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

// MountRoutes registers job order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/", h.list)
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/{orderID}", h.get)
	r.With(h.authz.RequirePermission(authz.PermCreate)).Post("/", h.create)
	r.With(h.authz.RequirePermission(authz.PermUpdate)).Post("/{orderID}/status", h.transition)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())

	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		orders, err := h.service.ListForCustomer(r.Context(), *user, customerID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"orders": orders})
		return
	}

	orders, err := h.service.ListForUser(r.Context(), *user)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	order, err := h.service.Get(r.Context(), *user, chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
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
	order, err := h.service.Create(r.Context(), *user, form)
	if err != nil {
		h.logger.Error("create order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	var body struct {
		Status Status `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	order, err := h.service.Transition(r.Context(), *user, chi.URLParam(r, "orderID"), body.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
