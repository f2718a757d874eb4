// Package linen tracks individual linen items by RFID/barcode tag:
// where each item is in its rental-wash cycle and how many washes it
// has absorbed.
package linen

import "time"

// Status is the position of an item in the rental-wash cycle.
type Status string

const (
	StatusInStock Status = "In Stock"
	StatusWashing Status = "Washing"
	StatusOnRent  Status = "On-Rent"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInStock, StatusWashing, StatusOnRent:
		return true
	}
	return false
}

// Item is a single tagged linen piece.
type Item struct {
	TagID      string    `json:"tagId"`
	Type       string    `json:"type"`
	CustomerID string    `json:"customerId"`
	BranchID   string    `json:"branchId"`
	Status     Status    `json:"status"`
	WashCycles int       `json:"washCycles"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwningBranch implements authz.BranchOwned.
func (i Item) OwningBranch() string { return i.BranchID }

// Form carries item registration input.
type Form struct {
	TagID      string `json:"tagId" validate:"required"`
	Type       string `json:"type" validate:"required"`
	CustomerID string `json:"customerId" validate:"required"`
	BranchID   string `json:"branchId" validate:"required"`
}

// transitions lists the legal status moves. Check-out puts stock on
// rent, check-in sends returned items to washing, and finishing a wash
// returns them to stock.
var transitions = map[Status]Status{
	StatusInStock: StatusOnRent,
	StatusOnRent:  StatusWashing,
	StatusWashing: StatusInStock,
}

// NextStatus returns the only legal successor of from, or false when
// to does not follow from.
func NextStatus(from, to Status) bool {
	next, ok := transitions[from]
	return ok && next == to
}
