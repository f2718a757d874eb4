// Package customers manages customer accounts. Every customer belongs
// to exactly one branch and listings are narrowed to the caller's
// branch scope.
package customers

import "time"

// Customer is a client of a branch (hotel, restaurant, spa, ...).
type Customer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ContactPerson  string    `json:"contactPerson"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	BranchID       string    `json:"branchId"`
	CustomerType   string    `json:"customerType"`
	TaxID          string    `json:"taxId"`
	CreditLimit    float64   `json:"creditLimit"`
	CurrentBalance float64   `json:"currentBalance"`
	PaymentTerms   int       `json:"paymentTerms"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// OwningBranch implements authz.BranchOwned.
func (c Customer) OwningBranch() string { return c.BranchID }

// Form carries create/update input.
type Form struct {
	Name          string  `json:"name" validate:"required"`
	ContactPerson string  `json:"contactPerson"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	BranchID      string  `json:"branchId" validate:"required"`
	CustomerType  string  `json:"customerType" validate:"required,oneof=hotel restaurant spa hospital residential other"`
	TaxID         string  `json:"taxId"`
	CreditLimit   float64 `json:"creditLimit" validate:"gte=0"`
	PaymentTerms  int     `json:"paymentTerms" validate:"gte=0,lte=90"`
}
