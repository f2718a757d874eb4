package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func superadmin() User {
	return User{ID: "user-1", Role: RoleSuperadmin, BranchID: "branch-1"}
}

func adminOf(ids ...string) User {
	return User{ID: "user-2", Role: RoleAdmin, BranchID: "branch-1", BranchIDs: ids}
}

func regularUser(branchID string) User {
	return User{ID: "user-3", Role: RoleUser, BranchID: branchID}
}

func TestCanAccessBranchSuperadmin(t *testing.T) {
	u := superadmin()
	require.True(t, CanAccessBranch(u, "branch-1"))
	require.True(t, CanAccessBranch(u, "branch-99"))

	// The assigned list is irrelevant for superadmins, including when empty.
	u.BranchIDs = nil
	require.True(t, CanAccessBranch(u, "branch-2"))
	u.BranchIDs = []string{"branch-1"}
	require.True(t, CanAccessBranch(u, "branch-3"))
}

func TestCanAccessBranchAdmin(t *testing.T) {
	u := adminOf("branch-1", "branch-2")
	require.True(t, CanAccessBranch(u, "branch-1"))
	require.True(t, CanAccessBranch(u, "branch-2"))
	require.False(t, CanAccessBranch(u, "branch-3"))
}

// An admin with no assigned branches has access to nothing. The primary
// branch id does not grant implicit access for this role; only the
// explicit assignment list counts.
func TestCanAccessBranchAdminWithoutAssignments(t *testing.T) {
	u := adminOf()
	require.False(t, CanAccessBranch(u, "branch-1"))
	require.False(t, CanAccessBranch(u, u.BranchID))

	u.BranchIDs = nil
	require.False(t, CanAccessBranch(u, "branch-1"))
}

func TestCanAccessBranchUserIgnoresBranchIDs(t *testing.T) {
	u := regularUser("branch-1")
	u.BranchIDs = []string{"branch-2"} // must be ignored for this role
	require.True(t, CanAccessBranch(u, "branch-1"))
	require.False(t, CanAccessBranch(u, "branch-2"))
}

func TestCanAccessBranchUserWithoutBranch(t *testing.T) {
	u := regularUser("")
	require.False(t, CanAccessBranch(u, ""))
	require.False(t, CanAccessBranch(u, "branch-1"))
}

func TestCanAccessBranchUnknownRolePanics(t *testing.T) {
	require.Panics(t, func() {
		CanAccessBranch(User{Role: Role("guest")}, "branch-1")
	})
}

func TestAccessibleBranches(t *testing.T) {
	scope := AccessibleBranches(superadmin())
	require.True(t, scope.All())
	require.False(t, scope.IsEmpty())
	require.True(t, scope.Contains("branch-42"))

	scope = AccessibleBranches(adminOf("branch-1", "branch-2"))
	require.False(t, scope.All())
	require.ElementsMatch(t, []string{"branch-1", "branch-2"}, scope.IDs())

	scope = AccessibleBranches(regularUser("branch-1"))
	require.Equal(t, []string{"branch-1"}, scope.IDs())
}

// An all-branches scope and an empty scope must never be conflated:
// the former contains everything, the latter nothing.
func TestBranchScopeAllVersusEmpty(t *testing.T) {
	all := AllBranches()
	none := AccessibleBranches(adminOf())

	require.True(t, all.All())
	require.False(t, all.IsEmpty())
	require.Nil(t, all.IDs())

	require.False(t, none.All())
	require.True(t, none.IsEmpty())
	require.Empty(t, none.IDs())
	require.False(t, none.Contains("branch-1"))
}

func TestAccessibleBranchesAgreesWithCanAccessBranch(t *testing.T) {
	users := []User{
		superadmin(),
		adminOf("branch-1", "branch-3"),
		adminOf(),
		regularUser("branch-2"),
	}
	branches := []string{"branch-1", "branch-2", "branch-3", "branch-4"}
	for _, u := range users {
		scope := AccessibleBranches(u)
		for _, b := range branches {
			require.Equal(t, CanAccessBranch(u, b), scope.Contains(b),
				"role %s branch %s", u.Role, b)
		}
	}
}

type taggedRecord struct {
	ID       string
	BranchID string
}

func (r taggedRecord) OwningBranch() string { return r.BranchID }

func TestFilterByBranchAccessSuperadminIdentity(t *testing.T) {
	items := []taggedRecord{
		{ID: "a", BranchID: "branch-1"},
		{ID: "b", BranchID: "branch-2"},
	}
	got := FilterByBranchAccess(superadmin(), items)
	require.Len(t, got, len(items))
	for i := range items {
		require.Equal(t, items[i], got[i])
	}
}

func TestFilterByBranchAccessStableOrder(t *testing.T) {
	items := []taggedRecord{
		{ID: "item-1", BranchID: "branch-1"},
		{ID: "item-2", BranchID: "branch-2"},
		{ID: "item-3", BranchID: "branch-1"},
		{ID: "item-4", BranchID: "branch-3"},
		{ID: "item-5", BranchID: "branch-2"},
	}
	got := FilterByBranchAccess(adminOf("branch-1"), items)
	require.Equal(t, []taggedRecord{
		{ID: "item-1", BranchID: "branch-1"},
		{ID: "item-3", BranchID: "branch-1"},
	}, got)
}

func TestFilterByBranchAccessIdempotent(t *testing.T) {
	items := []taggedRecord{
		{ID: "a", BranchID: "branch-1"},
		{ID: "b", BranchID: "branch-2"},
		{ID: "c", BranchID: "branch-1"},
	}
	u := adminOf("branch-1")
	once := FilterByBranchAccess(u, items)
	twice := FilterByBranchAccess(u, once)
	require.Equal(t, once, twice)
}

func TestFilterByBranchAccessEmptyInput(t *testing.T) {
	for _, u := range []User{superadmin(), adminOf("branch-1"), regularUser("branch-1")} {
		require.Empty(t, FilterByBranchAccess(u, []taggedRecord{}))
	}
}

func TestFilterByBranchAccessDoesNotMutateInput(t *testing.T) {
	items := []taggedRecord{
		{ID: "a", BranchID: "branch-2"},
		{ID: "b", BranchID: "branch-1"},
	}
	_ = FilterByBranchAccess(regularUser("branch-1"), items)
	require.Equal(t, "a", items[0].ID)
	require.Equal(t, "branch-2", items[0].BranchID)
}
