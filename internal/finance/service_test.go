package finance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

type memoryRepo struct {
	invoices  map[string]Invoice
	expenses  []Expense
	sequences map[int]int
}

func newMemoryRepo(invoices ...Invoice) *memoryRepo {
	r := &memoryRepo{invoices: map[string]Invoice{}, sequences: map[int]int{}}
	for _, inv := range invoices {
		r.invoices[inv.ID] = inv
	}
	return r
}

func (r *memoryRepo) ListInvoices(_ context.Context, scope authz.BranchScope) ([]Invoice, error) {
	out := []Invoice{}
	for _, inv := range r.invoices {
		if scope.Contains(inv.BranchID) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetInvoice(_ context.Context, id string) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	inv.RemainingAmount = inv.TotalAmount - inv.PaidAmount
	return &inv, nil
}

func (r *memoryRepo) CreateInvoice(_ context.Context, invoice Invoice) (*Invoice, error) {
	invoice.RemainingAmount = invoice.TotalAmount
	r.invoices[invoice.ID] = invoice
	return &invoice, nil
}

func (r *memoryRepo) RecordPayment(_ context.Context, id string, paidAmount float64, status InvoiceStatus, paidDate *time.Time) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	inv.PaidAmount = paidAmount
	inv.RemainingAmount = inv.TotalAmount - paidAmount
	inv.Status = status
	inv.PaidDate = paidDate
	r.invoices[id] = inv
	return &inv, nil
}

func (r *memoryRepo) SetInvoiceStatus(_ context.Context, id string, status InvoiceStatus) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	inv.Status = status
	r.invoices[id] = inv
	return &inv, nil
}

func (r *memoryRepo) NextInvoiceNumber(_ context.Context, year int) (int, error) {
	r.sequences[year]++
	return r.sequences[year], nil
}

func (r *memoryRepo) ListExpenses(_ context.Context, scope authz.BranchScope) ([]Expense, error) {
	out := []Expense{}
	for _, e := range r.expenses {
		if scope.Contains(e.BranchID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryRepo) CreateExpense(_ context.Context, expense Expense) (*Expense, error) {
	r.expenses = append(r.expenses, expense)
	return &expense, nil
}

var _ Repository = (*memoryRepo)(nil)

type memoryRecorder struct {
	entries []audit.Entry
}

func (r *memoryRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTestService(invoices ...Invoice) (*Service, *memoryRepo, *memoryRecorder) {
	repo := newMemoryRepo(invoices...)
	recorder := &memoryRecorder{}
	svc := NewService(repo, recorder, slog.Default())
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, recorder
}

func TestCreateInvoiceAppliesVATAfterDiscount(t *testing.T) {
	svc, _, recorder := newTestService()

	admin := authz.User{ID: "u-2", Role: authz.RoleAdmin, BranchID: "branch-1", BranchIDs: []string{"branch-1"}}
	invoice, err := svc.CreateInvoice(context.Background(), admin, InvoiceForm{
		CustomerID:  "cust-1",
		BranchID:    "branch-1",
		JobOrderIDs: []string{"job-1", "job-2"},
		DueDate:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Subtotal:    45000,
		Discount:    2250,
	})
	require.NoError(t, err)
	require.Equal(t, "INV-2024-001", invoice.InvoiceNumber)
	require.Equal(t, 7.0, invoice.VATRate)
	require.Equal(t, 2992.5, invoice.VATAmount)
	require.Equal(t, 45742.5, invoice.TotalAmount)
	require.Equal(t, InvoiceIssued, invoice.Status)
	require.Len(t, recorder.entries, 1)
}

func TestCreateInvoiceRejectsDiscountAboveSubtotal(t *testing.T) {
	svc, _, _ := newTestService()

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	_, err := svc.CreateInvoice(context.Background(), su, InvoiceForm{
		CustomerID:  "cust-1",
		BranchID:    "branch-1",
		JobOrderIDs: []string{"job-1"},
		DueDate:     time.Now(),
		Subtotal:    100,
		Discount:    150,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecordPaymentPartialThenFull(t *testing.T) {
	svc, _, _ := newTestService(Invoice{
		ID: "inv-1", InvoiceNumber: "INV-2024-001", BranchID: "branch-1",
		TotalAmount: 29960, Status: InvoiceIssued,
	})

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	ctx := context.Background()

	invoice, err := svc.RecordPayment(ctx, su, "inv-1", 15000)
	require.NoError(t, err)
	require.Equal(t, InvoicePartiallyPaid, invoice.Status)
	require.Equal(t, 14960.0, invoice.RemainingAmount)
	require.Nil(t, invoice.PaidDate)

	invoice, err = svc.RecordPayment(ctx, su, "inv-1", 14960)
	require.NoError(t, err)
	require.Equal(t, InvoicePaid, invoice.Status)
	require.Zero(t, invoice.RemainingAmount)
	require.NotNil(t, invoice.PaidDate)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	svc, _, _ := newTestService(Invoice{
		ID: "inv-1", BranchID: "branch-1", TotalAmount: 1000, Status: InvoiceIssued,
	})

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	_, err := svc.RecordPayment(context.Background(), su, "inv-1", 1500)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecordPaymentRejectsPaidInvoice(t *testing.T) {
	svc, _, _ := newTestService(Invoice{
		ID: "inv-1", BranchID: "branch-1", TotalAmount: 1000, PaidAmount: 1000, Status: InvoicePaid,
	})

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	_, err := svc.RecordPayment(context.Background(), su, "inv-1", 100)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCancelInvoiceRejectsWhenPaymentsExist(t *testing.T) {
	svc, _, _ := newTestService(
		Invoice{ID: "inv-1", BranchID: "branch-1", TotalAmount: 1000, PaidAmount: 500, Status: InvoicePartiallyPaid},
		Invoice{ID: "inv-2", BranchID: "branch-1", TotalAmount: 1000, Status: InvoiceIssued},
	)

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	ctx := context.Background()

	_, err := svc.CancelInvoice(ctx, su, "inv-1")
	require.ErrorIs(t, err, shared.ErrValidation)

	invoice, err := svc.CancelInvoice(ctx, su, "inv-2")
	require.NoError(t, err)
	require.Equal(t, InvoiceCancelled, invoice.Status)
}

func TestInvoiceAccessScopedToBranch(t *testing.T) {
	svc, _, _ := newTestService(
		Invoice{ID: "inv-1", BranchID: "branch-1", TotalAmount: 1000, Status: InvoiceIssued},
		Invoice{ID: "inv-2", BranchID: "branch-2", TotalAmount: 2000, Status: InvoiceIssued},
	)

	staff := authz.User{ID: "u-3", Role: authz.RoleUser, BranchID: "branch-2"}
	invoices, err := svc.ListInvoices(context.Background(), staff)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	require.Equal(t, "inv-2", invoices[0].ID)

	_, err = svc.GetInvoice(context.Background(), staff, "inv-1")
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCreateExpenseChecksBranchAccess(t *testing.T) {
	svc, repo, _ := newTestService()

	staff := authz.User{ID: "u-3", Role: authz.RoleUser, BranchID: "branch-2"}
	_, err := svc.CreateExpense(context.Background(), staff, ExpenseForm{
		BranchID:    "branch-1",
		Category:    "detergent",
		Description: "industrial detergent restock",
		Amount:      4500,
		ExpenseDate: time.Now(),
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
	require.Empty(t, repo.expenses)

	expense, err := svc.CreateExpense(context.Background(), staff, ExpenseForm{
		BranchID:    "branch-2",
		Category:    "detergent",
		Description: "industrial detergent restock",
		Amount:      4500,
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, "u-3", expense.CreatedBy)
}
