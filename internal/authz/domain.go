// Package authz implements role-based access control and branch-scoped
// multi-tenancy decisions. It is the single authorization authority for
// the application: HTTP middleware, services, and background jobs all
// call into this package instead of re-deriving role or branch rules.
//
// Every function takes the acting user or role as an explicit argument.
// The package holds no mutable state and performs no I/O, so all
// operations are safe for concurrent use.
package authz

import "time"

// Role is a closed three-value enumeration. Role values outside this
// set are a programming error, not a runtime condition.
type Role string

const (
	// RoleSuperadmin has full access to every branch and operation.
	RoleSuperadmin Role = "superadmin"
	// RoleAdmin has full data access within explicitly assigned branches.
	RoleAdmin Role = "admin"
	// RoleUser can view and create records in their primary branch only.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Permission is an atomic capability granted to a role.
type Permission string

const (
	PermRead           Permission = "read"
	PermCreate         Permission = "create"
	PermUpdate         Permission = "update"
	PermDelete         Permission = "delete"
	PermManageUsers    Permission = "manage_users"
	PermViewReports    Permission = "view_reports"
	PermManageSettings Permission = "manage_settings"
)

// User is the identity record consumed by authorization decisions. It
// is supplied by the session layer; this package never loads or mutates
// user data itself.
type User struct {
	ID          string
	Email       string
	Name        string
	Role        Role
	BranchID    string
	BranchIDs   []string
	IsActive    bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// BranchOwned is implemented by every record that belongs to a branch.
type BranchOwned interface {
	OwningBranch() string
}
