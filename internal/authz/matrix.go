package authz

import "fmt"

// rolePermissions is the role-permission matrix. It is fixed at compile
// time: permissions are wholly determined by role, with no per-user
// overrides.
var rolePermissions = map[Role][]Permission{
	RoleSuperadmin: {
		PermRead,
		PermCreate,
		PermUpdate,
		PermDelete,
		PermManageUsers,
		PermViewReports,
		PermManageSettings,
	},
	RoleAdmin: {
		PermRead,
		PermCreate,
		PermUpdate,
		PermDelete,
		PermViewReports,
	},
	RoleUser: {
		PermRead,
		PermCreate,
		PermViewReports,
	},
}

// PermissionsFor returns a copy of the permission set granted to role.
// It panics on an unknown role: a silently empty (or full) permission
// set is the failure mode this package must never exhibit.
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		panic(fmt.Sprintf("authz: unknown role %q", role))
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether role is granted permission by the
// matrix. Panics on an unknown role.
func HasPermission(role Role, permission Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		panic(fmt.Sprintf("authz: unknown role %q", role))
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// CanPerformAction reports whether role may perform an action-level
// operation (button or API mutation gating). It is computed exactly
// like HasPermission but kept as a separate entry point because callers
// are asking a different question than page-level access.
func CanPerformAction(role Role, action Permission) bool {
	return HasPermission(role, action)
}
