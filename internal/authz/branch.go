package authz

import "fmt"

// BranchScope is the set of branches a user may act upon. It is a
// tagged value: the "all branches" grant held by superadmins is
// distinct from an explicit (possibly empty) list, so an empty slice
// can never be misread as universal access.
type BranchScope struct {
	all bool
	ids []string
}

// AllBranches returns the scope granting access to every branch.
func AllBranches() BranchScope {
	return BranchScope{all: true}
}

// Branches returns a scope limited to the given branch ids.
func Branches(ids ...string) BranchScope {
	out := make([]string, len(ids))
	copy(out, ids)
	return BranchScope{ids: out}
}

// All reports whether the scope covers every branch.
func (s BranchScope) All() bool { return s.all }

// IDs returns the explicit branch list. It is nil for an all-branches
// scope; callers must check All before interpreting the list.
func (s BranchScope) IDs() []string {
	if s.all {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether branchID falls inside the scope.
func (s BranchScope) Contains(branchID string) bool {
	if s.all {
		return true
	}
	for _, id := range s.ids {
		if id == branchID {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the scope grants access to no branch at all.
func (s BranchScope) IsEmpty() bool {
	return !s.all && len(s.ids) == 0
}

// String implements fmt.Stringer for log output.
func (s BranchScope) String() string {
	if s.all {
		return "all-branches"
	}
	return fmt.Sprintf("branches%v", s.ids)
}

// CanAccessBranch decides whether user may touch data owned by
// branchID.
//
//   - superadmin: always allowed, regardless of any assigned list
//   - admin: allowed only when branchID is in the explicit BranchIDs
//     set; an admin with no assigned branches can access nothing
//   - user: allowed only for the primary BranchID; BranchIDs is
//     ignored entirely for this role
func CanAccessBranch(user User, branchID string) bool {
	switch user.Role {
	case RoleSuperadmin:
		return true
	case RoleAdmin:
		for _, id := range user.BranchIDs {
			if id == branchID {
				return true
			}
		}
		return false
	case RoleUser:
		return user.BranchID != "" && user.BranchID == branchID
	}
	panic(fmt.Sprintf("authz: unknown role %q", user.Role))
}

// AccessibleBranches derives the full branch scope for user. The result
// mirrors CanAccessBranch: Contains(id) is true exactly when
// CanAccessBranch(user, id) is true.
func AccessibleBranches(user User) BranchScope {
	switch user.Role {
	case RoleSuperadmin:
		return AllBranches()
	case RoleAdmin:
		return Branches(user.BranchIDs...)
	case RoleUser:
		if user.BranchID == "" {
			return Branches()
		}
		return Branches(user.BranchID)
	}
	panic(fmt.Sprintf("authz: unknown role %q", user.Role))
}

// FilterByBranchAccess returns the items whose owning branch the user
// may access, preserving relative order. For superadmins the input
// slice is returned as-is. The input is never mutated and the function
// is total over nil and empty slices.
//
// Every data-listing surface must pass its rows through this filter
// before they reach a caller.
func FilterByBranchAccess[T BranchOwned](user User, items []T) []T {
	if user.Role == RoleSuperadmin {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if CanAccessBranch(user, item.OwningBranch()) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
