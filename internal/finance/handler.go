package finance

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/httpx"
)

// Handler wires invoice and expense endpoints.
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

// MountInvoiceRoutes registers invoice routes.
func (h *Handler) MountInvoiceRoutes(r chi.Router) {
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/", h.listInvoices)
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/{invoiceID}", h.getInvoice)
	r.With(h.authz.RequirePermission(authz.PermCreate)).Post("/", h.createInvoice)
	r.With(h.authz.RequirePermission(authz.PermUpdate)).Post("/{invoiceID}/payments", h.recordPayment)
	r.With(h.authz.RequirePermission(authz.PermDelete)).Post("/{invoiceID}/cancel", h.cancelInvoice)
}

// MountExpenseRoutes registers expense routes.
func (h *Handler) MountExpenseRoutes(r chi.Router) {
	r.With(h.authz.RequirePermission(authz.PermRead)).Get("/", h.listExpenses)
	r.With(h.authz.RequirePermission(authz.PermCreate)).Post("/", h.createExpense)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	invoices, err := h.service.ListInvoices(r.Context(), *user)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	invoice, err := h.service.GetInvoice(r.Context(), *user, chi.URLParam(r, "invoiceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	var form InvoiceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
		return
	}
	invoice, err := h.service.CreateInvoice(r.Context(), *user, form)
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	invoice, err := h.service.RecordPayment(r.Context(), *user, chi.URLParam(r, "invoiceID"), body.Amount)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) cancelInvoice(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	invoice, err := h.service.CancelInvoice(r.Context(), *user, chi.URLParam(r, "invoiceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	expenses, err := h.service.ListExpenses(r.Context(), *user)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	var form ExpenseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Bad Request", "invalid request body", "INVALID_INPUT")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ProblemCode(w, http.StatusBadRequest, "Validation Failed", err.Error(), "VALIDATION_FAILED")
		return
	}
	expense, err := h.service.CreateExpense(r.Context(), *user, form)
	if err != nil {
		h.logger.Error("create expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}
