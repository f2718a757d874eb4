// Package orders manages job orders: a batch of linen received from a
// customer, moving through the processing pipeline to delivery.
package orders

import "time"

// Status is the position of a job order in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Service types offered per the rate card.
const (
	ServiceWashFold = "wash_fold"
	ServiceWashIron = "wash_iron"
	ServiceDryClean = "dry_clean"
)

// Order is one job order.
type Order struct {
	ID           string     `json:"id"`
	OrderNumber  string     `json:"orderNumber"`
	CustomerID   string     `json:"customerId"`
	CustomerName string     `json:"customerName"`
	BranchID     string     `json:"branchId"`
	ServiceType  string     `json:"serviceType"`
	Status       Status     `json:"status"`
	Weight       float64    `json:"weight"`
	ItemCount    int        `json:"itemCount"`
	ReceivedAt   time.Time  `json:"receivedAt"`
	DueDate      time.Time  `json:"dueDate"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	AssignedTo   string     `json:"assignedTo,omitempty"`
	ServicePrice float64    `json:"servicePrice"`
	TotalPrice   float64    `json:"totalPrice"`
	CreatedBy    string     `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// OwningBranch implements authz.BranchOwned.
func (o Order) OwningBranch() string { return o.BranchID }

// Form carries job order intake input. Pricing is per kilogram; the
// total is derived, never client-supplied.
type Form struct {
	CustomerID   string    `json:"customerId" validate:"required"`
	BranchID     string    `json:"branchId" validate:"required"`
	ServiceType  string    `json:"serviceType" validate:"required,oneof=wash_fold wash_iron dry_clean"`
	Weight       float64   `json:"weight" validate:"gt=0"`
	ItemCount    int       `json:"itemCount" validate:"gt=0"`
	DueDate      time.Time `json:"dueDate" validate:"required"`
	AssignedTo   string    `json:"assignedTo"`
	ServicePrice float64   `json:"servicePrice" validate:"gt=0"`
}

// transitions lists the legal lifecycle moves. Cancellation is only
// possible before the work is done.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
