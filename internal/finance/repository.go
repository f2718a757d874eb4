package finance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/shared"
)

// Repository defines persistence for invoices and expenses.
type Repository interface {
	ListInvoices(ctx context.Context, scope authz.BranchScope) ([]Invoice, error)
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	CreateInvoice(ctx context.Context, invoice Invoice) (*Invoice, error)
	RecordPayment(ctx context.Context, id string, paidAmount float64, status InvoiceStatus, paidDate *time.Time) (*Invoice, error)
	SetInvoiceStatus(ctx context.Context, id string, status InvoiceStatus) (*Invoice, error)
	NextInvoiceNumber(ctx context.Context, year int) (int, error)

	ListExpenses(ctx context.Context, scope authz.BranchScope) ([]Expense, error)
	CreateExpense(ctx context.Context, expense Expense) (*Expense, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const invoiceColumns = `i.id, i.invoice_number, i.customer_id, c.name, i.branch_id, i.job_order_ids,
       i.issued_date, i.due_date, i.subtotal, i.discount, i.vat_rate, i.vat_amount,
       i.total_amount, i.paid_amount, i.total_amount - i.paid_amount, i.status,
       i.paid_date, i.created_by, i.created_at, i.updated_at`

const invoiceFrom = ` FROM invoices i JOIN customers c ON c.id = i.customer_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.CustomerName,
		&inv.BranchID, &inv.JobOrderIDs, &inv.IssuedDate, &inv.DueDate, &inv.Subtotal,
		&inv.Discount, &inv.VATRate, &inv.VATAmount, &inv.TotalAmount, &inv.PaidAmount,
		&inv.RemainingAmount, &inv.Status, &inv.PaidDate, &inv.CreatedBy,
		&inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns invoices within scope, newest first.
func (r *PGRepository) ListInvoices(ctx context.Context, scope authz.BranchScope) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + invoiceFrom
	args := []any{}
	if !scope.All() {
		query += ` WHERE i.branch_id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY i.issued_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []Invoice{}
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.CustomerName,
			&inv.BranchID, &inv.JobOrderIDs, &inv.IssuedDate, &inv.DueDate, &inv.Subtotal,
			&inv.Discount, &inv.VATRate, &inv.VATAmount, &inv.TotalAmount, &inv.PaidAmount,
			&inv.RemainingAmount, &inv.Status, &inv.PaidDate, &inv.CreatedBy,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// GetInvoice fetches one invoice.
func (r *PGRepository) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+invoiceFrom+` WHERE i.id = $1`, id)
	return scanInvoice(row)
}

// CreateInvoice inserts a new invoice.
func (r *PGRepository) CreateInvoice(ctx context.Context, invoice Invoice) (*Invoice, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO invoices
(id, invoice_number, customer_id, branch_id, job_order_ids, issued_date, due_date,
 subtotal, discount, vat_rate, vat_amount, total_amount, paid_amount, status,
 created_by, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,$13,$14,NOW(),NOW())`,
		invoice.ID, invoice.InvoiceNumber, invoice.CustomerID, invoice.BranchID,
		invoice.JobOrderIDs, invoice.IssuedDate, invoice.DueDate, invoice.Subtotal,
		invoice.Discount, invoice.VATRate, invoice.VATAmount, invoice.TotalAmount,
		invoice.Status, invoice.CreatedBy)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return r.GetInvoice(ctx, invoice.ID)
}

// RecordPayment updates the paid amount and resulting status.
func (r *PGRepository) RecordPayment(ctx context.Context, id string, paidAmount float64, status InvoiceStatus, paidDate *time.Time) (*Invoice, error) {
	_, err := r.pool.Exec(ctx, `UPDATE invoices
SET paid_amount = $2, status = $3, paid_date = $4, updated_at = NOW()
WHERE id = $1`, id, paidAmount, status, paidDate)
	if err != nil {
		return nil, err
	}
	return r.GetInvoice(ctx, id)
}

// SetInvoiceStatus moves an invoice to a new status.
func (r *PGRepository) SetInvoiceStatus(ctx context.Context, id string, status InvoiceStatus) (*Invoice, error) {
	_, err := r.pool.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return nil, err
	}
	return r.GetInvoice(ctx, id)
}

// NextInvoiceNumber reserves the next sequence value for the year's
// invoice numbers.
func (r *PGRepository) NextInvoiceNumber(ctx context.Context, year int) (int, error) {
	var seq int
	err := r.pool.QueryRow(ctx, `INSERT INTO invoice_sequences (year, last_value)
VALUES ($1, 1)
ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
RETURNING last_value`, year).Scan(&seq)
	return seq, err
}

const expenseColumns = `id, branch_id, category, description, amount, expense_date, created_by, created_at`

// ListExpenses returns expenses within scope, newest first.
func (r *PGRepository) ListExpenses(ctx context.Context, scope authz.BranchScope) ([]Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	args := []any{}
	if !scope.All() {
		query += ` WHERE branch_id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY expense_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.BranchID, &e.Category, &e.Description,
			&e.Amount, &e.ExpenseDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CreateExpense inserts a new expense.
func (r *PGRepository) CreateExpense(ctx context.Context, expense Expense) (*Expense, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO expenses
(id, branch_id, category, description, amount, expense_date, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
RETURNING `+expenseColumns,
		expense.ID, expense.BranchID, expense.Category, expense.Description,
		expense.Amount, expense.ExpenseDate, expense.CreatedBy)
	var e Expense
	if err := row.Scan(&e.ID, &e.BranchID, &e.Category, &e.Description,
		&e.Amount, &e.ExpenseDate, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

var _ Repository = (*PGRepository)(nil)
