// Package users manages user accounts: creation, role and branch
// assignment, and deactivation. All operations sit behind the
// manage_users permission.
package users

import (
	"time"

	"github.com/linenflow/linenflow/internal/authz"
)

// User is a managed account. PasswordHash never leaves the package.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         authz.Role `json:"role"`
	BranchID     string     `json:"branchId"`
	BranchIDs    []string   `json:"branchIds,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	PasswordHash string     `json:"-"`
}

// CreateForm carries new-account input.
type CreateForm struct {
	Email     string   `json:"email" validate:"required,email"`
	Name      string   `json:"name" validate:"required"`
	Password  string   `json:"password" validate:"required,min=8"`
	Role      string   `json:"role" validate:"required,oneof=superadmin admin user"`
	BranchID  string   `json:"branchId" validate:"required"`
	BranchIDs []string `json:"branchIds"`
}

// UpdateForm carries account updates. Password is optional; empty
// means keep the current hash.
type UpdateForm struct {
	Name      string   `json:"name" validate:"required"`
	Password  string   `json:"password" validate:"omitempty,min=8"`
	Role      string   `json:"role" validate:"required,oneof=superadmin admin user"`
	BranchID  string   `json:"branchId" validate:"required"`
	BranchIDs []string `json:"branchIds"`
}
