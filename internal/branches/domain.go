// Package branches manages branch master data. Branches are the unit
// of tenant partitioning: every business record belongs to exactly one
// branch, and the authorization core decides which branches a user may
// touch.
package branches

import "time"

// Branch represents a physical location.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BranchForm carries create/update input.
type BranchForm struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,alphanum,uppercase,max=8"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
