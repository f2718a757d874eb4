package finance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

// Service orchestrates invoicing and expense tracking.
type Service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

// ListInvoices returns invoices visible to the user.
func (s *Service) ListInvoices(ctx context.Context, user authz.User) ([]Invoice, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Invoice{}, nil
	}
	invoices, err := s.repo.ListInvoices(ctx, scope)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, invoices), nil
}

// GetInvoice fetches one invoice, enforcing branch access.
func (s *Service) GetInvoice(ctx context.Context, user authz.User, id string) (*Invoice, error) {
	invoice, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessBranch(user, invoice.BranchID) {
		return nil, fmt.Errorf("%w: invoice %s", shared.ErrForbidden, id)
	}
	return invoice, nil
}

// CreateInvoice issues an invoice. VAT applies to the discounted
// subtotal at the standard rate.
func (s *Service) CreateInvoice(ctx context.Context, user authz.User, form InvoiceForm) (*Invoice, error) {
	if !authz.CanAccessBranch(user, form.BranchID) {
		return nil, fmt.Errorf("%w: branch %s", shared.ErrForbidden, form.BranchID)
	}
	if form.Discount > form.Subtotal {
		return nil, fmt.Errorf("%w: discount exceeds subtotal", shared.ErrValidation)
	}
	now := s.now().UTC()
	seq, err := s.repo.NextInvoiceNumber(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("reserve invoice number: %w", err)
	}

	base := form.Subtotal - form.Discount
	vat := round2(base * DefaultVATRate / 100)
	total := round2(base + vat)

	invoice, err := s.repo.CreateInvoice(ctx, Invoice{
		ID:            "inv-" + uuid.NewString(),
		InvoiceNumber: fmt.Sprintf("INV-%d-%03d", now.Year(), seq),
		CustomerID:    form.CustomerID,
		BranchID:      form.BranchID,
		JobOrderIDs:   form.JobOrderIDs,
		IssuedDate:    now,
		DueDate:       form.DueDate,
		Subtotal:      form.Subtotal,
		Discount:      form.Discount,
		VATRate:       DefaultVATRate,
		VATAmount:     vat,
		TotalAmount:   total,
		Status:        InvoiceIssued,
		CreatedBy:     user.ID,
	})
	if err != nil {
		return nil, err
	}
	s.recordInvoice(ctx, user, audit.ActionCreated, invoice, "invoice issued")
	return invoice, nil
}

// RecordPayment applies a payment against an invoice. Full settlement
// marks it paid; anything less leaves it partially paid.
func (s *Service) RecordPayment(ctx context.Context, user authz.User, id string, amount float64) (*Invoice, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	}
	invoice, err := s.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case InvoiceIssued, InvoicePartiallyPaid, InvoiceOverdue:
	default:
		return nil, fmt.Errorf("%w: invoice %s is %s", shared.ErrValidation, invoice.InvoiceNumber, invoice.Status)
	}

	paid := round2(invoice.PaidAmount + amount)
	if paid > invoice.TotalAmount {
		return nil, fmt.Errorf("%w: payment exceeds remaining balance", shared.ErrValidation)
	}

	status := InvoicePartiallyPaid
	var paidDate *time.Time
	if paid == invoice.TotalAmount {
		status = InvoicePaid
		at := s.now().UTC()
		paidDate = &at
	}

	updated, err := s.repo.RecordPayment(ctx, id, paid, status, paidDate)
	if err != nil {
		return nil, err
	}
	s.recordInvoice(ctx, user, audit.ActionUpdated, updated, "payment recorded")
	return updated, nil
}

// CancelInvoice voids an unpaid invoice.
func (s *Service) CancelInvoice(ctx context.Context, user authz.User, id string) (*Invoice, error) {
	invoice, err := s.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if invoice.PaidAmount > 0 {
		return nil, fmt.Errorf("%w: invoice %s has payments recorded", shared.ErrValidation, invoice.InvoiceNumber)
	}
	updated, err := s.repo.SetInvoiceStatus(ctx, id, InvoiceCancelled)
	if err != nil {
		return nil, err
	}
	s.recordInvoice(ctx, user, audit.ActionCancelled, updated, "invoice cancelled")
	return updated, nil
}

// ListExpenses returns expenses visible to the user.
func (s *Service) ListExpenses(ctx context.Context, user authz.User) ([]Expense, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Expense{}, nil
	}
	expenses, err := s.repo.ListExpenses(ctx, scope)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, expenses), nil
}

// CreateExpense books an expense against a branch the caller can
// access.
func (s *Service) CreateExpense(ctx context.Context, user authz.User, form ExpenseForm) (*Expense, error) {
	if !authz.CanAccessBranch(user, form.BranchID) {
		return nil, fmt.Errorf("%w: branch %s", shared.ErrForbidden, form.BranchID)
	}
	return s.repo.CreateExpense(ctx, Expense{
		ID:          "exp-" + uuid.NewString(),
		BranchID:    form.BranchID,
		Category:    form.Category,
		Description: form.Description,
		Amount:      form.Amount,
		ExpenseDate: form.ExpenseDate,
		CreatedBy:   user.ID,
	})
}

func (s *Service) recordInvoice(ctx context.Context, user authz.User, action string, invoice *Invoice, description string) {
	err := s.recorder.Record(ctx, audit.Entry{
		Type:        audit.TypeOrder,
		Action:      action,
		EntityType:  "invoice",
		EntityID:    invoice.ID,
		BranchID:    invoice.BranchID,
		Description: description,
		PerformedBy: user.ID,
		Meta:        map[string]any{"invoiceNumber": invoice.InvoiceNumber, "status": string(invoice.Status)},
	})
	if err != nil {
		s.logger.Warn("record invoice activity", slog.Any("error", err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
