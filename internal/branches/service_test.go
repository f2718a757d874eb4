package branches

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

type memoryRepo struct {
	branches map[string]Branch
}

func newMemoryRepo(branches ...Branch) *memoryRepo {
	r := &memoryRepo{branches: map[string]Branch{}}
	for _, b := range branches {
		r.branches[b.ID] = b
	}
	return r
}

func (r *memoryRepo) List(_ context.Context, scope authz.BranchScope) ([]Branch, error) {
	out := []Branch{}
	for _, id := range []string{"branch-1", "branch-2", "branch-3"} {
		b, ok := r.branches[id]
		if !ok {
			continue
		}
		if scope.Contains(b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r *memoryRepo) Create(_ context.Context, branch Branch) (*Branch, error) {
	for _, existing := range r.branches {
		if existing.Code == branch.Code {
			return nil, shared.ErrDuplicate
		}
	}
	branch.IsActive = true
	r.branches[branch.ID] = branch
	return &branch, nil
}

func (r *memoryRepo) Update(_ context.Context, branch Branch) (*Branch, error) {
	existing, ok := r.branches[branch.ID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	existing.Name = branch.Name
	existing.Code = branch.Code
	existing.Address = branch.Address
	existing.Phone = branch.Phone
	r.branches[branch.ID] = existing
	return &existing, nil
}

func (r *memoryRepo) Deactivate(_ context.Context, id string) error {
	b, ok := r.branches[id]
	if !ok {
		return shared.ErrNotFound
	}
	b.IsActive = false
	r.branches[id] = b
	return nil
}

var _ Repository = (*memoryRepo)(nil)

func seedBranches() []Branch {
	return []Branch{
		{ID: "branch-1", Name: "Bangkok Central", Code: "BKK01", IsActive: true},
		{ID: "branch-2", Name: "Chiang Mai", Code: "CNX01", IsActive: true},
		{ID: "branch-3", Name: "Phuket", Code: "HKT01", IsActive: true},
	}
}

func TestListForUserSuperadminSeesAll(t *testing.T) {
	svc := NewService(newMemoryRepo(seedBranches()...))

	su := authz.User{ID: "u-1", Role: authz.RoleSuperadmin, BranchID: "branch-1"}
	list, err := svc.ListForUser(context.Background(), su)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestListForUserAdminSeesAssignedBranches(t *testing.T) {
	svc := NewService(newMemoryRepo(seedBranches()...))

	admin := authz.User{ID: "u-2", Role: authz.RoleAdmin, BranchID: "branch-1", BranchIDs: []string{"branch-1", "branch-3"}}
	list, err := svc.ListForUser(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "branch-1", list[0].ID)
	require.Equal(t, "branch-3", list[1].ID)
}

func TestListForUserOrphanAdminGetsNothing(t *testing.T) {
	svc := NewService(newMemoryRepo(seedBranches()...))

	orphan := authz.User{ID: "u-3", Role: authz.RoleAdmin, BranchID: "branch-1"}
	list, err := svc.ListForUser(context.Background(), orphan)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestGetDeniesForeignBranch(t *testing.T) {
	svc := NewService(newMemoryRepo(seedBranches()...))

	user := authz.User{ID: "u-4", Role: authz.RoleUser, BranchID: "branch-2"}
	_, err := svc.Get(context.Background(), user, "branch-1")
	require.ErrorIs(t, err, shared.ErrForbidden)

	branch, err := svc.Get(context.Background(), user, "branch-2")
	require.NoError(t, err)
	require.Equal(t, "CNX01", branch.Code)
}

func TestCreateNormalizesAndAssignsID(t *testing.T) {
	svc := NewService(newMemoryRepo())

	branch, err := svc.Create(context.Background(), BranchForm{Name: "  Pattaya  ", Code: "pty01"})
	require.NoError(t, err)
	require.Equal(t, "Pattaya", branch.Name)
	require.Equal(t, "PTY01", branch.Code)
	require.True(t, branch.IsActive)
	require.NotEmpty(t, branch.ID)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryRepo(seedBranches()...))

	_, err := svc.Create(context.Background(), BranchForm{Name: "Another Bangkok", Code: "BKK01"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), BranchForm{Name: "   ", Code: "BKK02"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeactivateKeepsRow(t *testing.T) {
	repo := newMemoryRepo(seedBranches()...)
	svc := NewService(repo)

	require.NoError(t, svc.Deactivate(context.Background(), "branch-3"))

	branch, err := repo.Get(context.Background(), "branch-3")
	require.NoError(t, err)
	require.False(t, branch.IsActive)
}
