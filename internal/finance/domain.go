// Package finance manages invoices and branch expenses. Amounts are
// Thai baht with 7% VAT applied after discount.
package finance

import "time"

// InvoiceStatus is the payment lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceIssued        InvoiceStatus = "issued"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// DefaultVATRate is the standard Thai VAT percentage.
const DefaultVATRate = 7.0

// Invoice bills a customer for one or more job orders.
type Invoice struct {
	ID              string        `json:"id"`
	InvoiceNumber   string        `json:"invoiceNumber"`
	CustomerID      string        `json:"customerId"`
	CustomerName    string        `json:"customerName"`
	BranchID        string        `json:"branchId"`
	JobOrderIDs     []string      `json:"jobOrderIds"`
	IssuedDate      time.Time     `json:"issuedDate"`
	DueDate         time.Time     `json:"dueDate"`
	Subtotal        float64       `json:"subtotal"`
	Discount        float64       `json:"discount"`
	VATRate         float64       `json:"vatRate"`
	VATAmount       float64       `json:"vatAmount"`
	TotalAmount     float64       `json:"totalAmount"`
	PaidAmount      float64       `json:"paidAmount"`
	RemainingAmount float64       `json:"remainingAmount"`
	Status          InvoiceStatus `json:"status"`
	PaidDate        *time.Time    `json:"paidDate,omitempty"`
	CreatedBy       string        `json:"createdBy"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// OwningBranch implements authz.BranchOwned.
func (i Invoice) OwningBranch() string { return i.BranchID }

// InvoiceForm carries invoice creation input. VAT and totals are
// derived server-side.
type InvoiceForm struct {
	CustomerID  string    `json:"customerId" validate:"required"`
	BranchID    string    `json:"branchId" validate:"required"`
	JobOrderIDs []string  `json:"jobOrderIds" validate:"required,min=1"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	Subtotal    float64   `json:"subtotal" validate:"gt=0"`
	Discount    float64   `json:"discount" validate:"gte=0"`
}

// Expense is money spent by a branch.
type Expense struct {
	ID          string    `json:"id"`
	BranchID    string    `json:"branchId"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	ExpenseDate time.Time `json:"expenseDate"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OwningBranch implements authz.BranchOwned.
func (e Expense) OwningBranch() string { return e.BranchID }

// ExpenseForm carries expense input.
type ExpenseForm struct {
	BranchID    string    `json:"branchId" validate:"required"`
	Category    string    `json:"category" validate:"required,oneof=detergent utilities maintenance salaries transport other"`
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	ExpenseDate time.Time `json:"expenseDate" validate:"required"`
}
