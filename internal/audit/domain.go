// Package audit records and lists the activity log shown on the
// dashboard. Every entry is tagged with the owning branch so listings
// go through the same branch-scope filter as business data.
package audit

import "time"

// Entry is one activity log record.
type Entry struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	BranchID    string         `json:"branchId"`
	Description string         `json:"description"`
	PerformedBy string         `json:"performedBy,omitempty"`
	Meta        map[string]any `json:"metadata,omitempty"`
	OccurredAt  time.Time      `json:"timestamp"`
}

// OwningBranch implements authz.BranchOwned.
func (e Entry) OwningBranch() string { return e.BranchID }

// Activity types.
const (
	TypeOrder       = "order"
	TypeCleaning    = "cleaning"
	TypeRental      = "rental"
	TypeMaintenance = "maintenance"
	TypeCustomer    = "customer"
	TypeInventory   = "inventory"
)

// Activity actions.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCompleted = "completed"
	ActionCancelled = "cancelled"
	ActionDelivered = "delivered"
	ActionReturned  = "returned"
)
