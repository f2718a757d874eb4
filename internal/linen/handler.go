package linen

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Handler wires linen item endpoints.
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

// MountRoutes registers linen item routes. Status moves are updates,
// not creates: check-in operators need the update permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/", h.list)
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/{tagID}", h.get)
	r.With(h.authz.RequirePermission(authz.PermCreate)).Post("/", h.create)
	r.With(h.authz.RequirePermission(authz.PermUpdate)).Post("/{tagID}/status", h.transition)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	items, err := h.service.ListForUser(r.Context(), *user)
	if err != nil {
		h.logger.Error("list linen items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	item, err := h.service.Get(r.Context(), *user, chi.URLParam(r, "tagID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
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
	item, err := h.service.Create(r.Context(), *user, form)
	if err != nil {
		h.logger.Error("create linen item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
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
	item, err := h.service.Transition(r.Context(), *user, chi.URLParam(r, "tagID"), body.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}
