package customers

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

type memoryRepo struct {
	order     []string
	customers map[string]Customer
}

func newMemoryRepo(customers ...Customer) *memoryRepo {
	r := &memoryRepo{customers: map[string]Customer{}}
	for _, c := range customers {
		r.order = append(r.order, c.ID)
		r.customers[c.ID] = c
	}
	return r
}

func (r *memoryRepo) List(_ context.Context, scope authz.BranchScope) ([]Customer, error) {
	out := []Customer{}
	for _, id := range r.order {
		c := r.customers[id]
		if scope.Contains(c.BranchID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) Create(_ context.Context, customer Customer) (*Customer, error) {
	customer.IsActive = true
	r.order = append(r.order, customer.ID)
	r.customers[customer.ID] = customer
	return &customer, nil
}

func (r *memoryRepo) Update(_ context.Context, customer Customer) (*Customer, error) {
	existing, ok := r.customers[customer.ID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	customer.BranchID = existing.BranchID
	customer.IsActive = existing.IsActive
	r.customers[customer.ID] = customer
	return &customer, nil
}

func (r *memoryRepo) Deactivate(_ context.Context, id string) error {
	c, ok := r.customers[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.IsActive = false
	r.customers[id] = c
	return nil
}

var _ Repository = (*memoryRepo)(nil)

type memoryRecorder struct {
	entries []audit.Entry
}

func (r *memoryRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTestService(customers ...Customer) (*Service, *memoryRepo, *memoryRecorder) {
	repo := newMemoryRepo(customers...)
	recorder := &memoryRecorder{}
	return NewService(repo, recorder, slog.Default()), repo, recorder
}

func seedCustomers() []Customer {
	return []Customer{
		{ID: "cust-1", Name: "Riverside Hotel", BranchID: "branch-1", CustomerType: "hotel", IsActive: true},
		{ID: "cust-2", Name: "Nimman Heritage", BranchID: "branch-2", CustomerType: "hotel", IsActive: true},
		{ID: "cust-3", Name: "Silom Spa", BranchID: "branch-1", CustomerType: "spa", IsActive: true},
	}
}

func TestListForUserNarrowsToBranchScope(t *testing.T) {
	svc, _, _ := newTestService(seedCustomers()...)

	staff := authz.User{ID: "u-1", Role: authz.RoleUser, BranchID: "branch-2"}
	customers, err := svc.ListForUser(context.Background(), staff)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "cust-2", customers[0].ID)
}

func TestListForUserSuperadminSeesAll(t *testing.T) {
	svc, _, _ := newTestService(seedCustomers()...)

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin, BranchID: "branch-1"}
	customers, err := svc.ListForUser(context.Background(), su)
	require.NoError(t, err)
	require.Len(t, customers, 3)
}

func TestGetDeniesForeignBranch(t *testing.T) {
	svc, _, _ := newTestService(seedCustomers()...)

	staff := authz.User{ID: "u-1", Role: authz.RoleUser, BranchID: "branch-2"}
	_, err := svc.Get(context.Background(), staff, "cust-1")
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCreateRejectsInaccessibleBranch(t *testing.T) {
	svc, _, recorder := newTestService()

	staff := authz.User{ID: "u-1", Role: authz.RoleUser, BranchID: "branch-2"}
	_, err := svc.Create(context.Background(), staff, Form{
		Name:         "Sneaky Hotel",
		BranchID:     "branch-1",
		CustomerType: "hotel",
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
	require.Empty(t, recorder.entries)
}

func TestCreateRecordsActivity(t *testing.T) {
	svc, _, recorder := newTestService()

	admin := authz.User{ID: "u-2", Role: authz.RoleAdmin, BranchID: "branch-1", BranchIDs: []string{"branch-1"}}
	customer, err := svc.Create(context.Background(), admin, Form{
		Name:         "  Grand Palace Hotel ",
		Email:        "Sarah@GrandPalace.com",
		BranchID:     "branch-1",
		CustomerType: "hotel",
		CreditLimit:  150000,
		PaymentTerms: 45,
	})
	require.NoError(t, err)
	require.Equal(t, "Grand Palace Hotel", customer.Name)
	require.Equal(t, "sarah@grandpalace.com", customer.Email)

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	require.Equal(t, audit.TypeCustomer, entry.Type)
	require.Equal(t, audit.ActionCreated, entry.Action)
	require.Equal(t, customer.ID, entry.EntityID)
	require.Equal(t, "branch-1", entry.BranchID)
	require.Equal(t, "u-2", entry.PerformedBy)
}

func TestUpdateKeepsOwningBranch(t *testing.T) {
	svc, repo, _ := newTestService(seedCustomers()...)

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin, BranchID: "branch-1"}
	updated, err := svc.Update(context.Background(), su, "cust-2", Form{
		Name:         "Nimman Heritage Hotel",
		BranchID:     "branch-1", // ignored: records never migrate
		CustomerType: "hotel",
	})
	require.NoError(t, err)
	require.Equal(t, "branch-2", updated.BranchID)
	require.Equal(t, "branch-2", repo.customers["cust-2"].BranchID)
}

func TestDeactivateChecksAccessFirst(t *testing.T) {
	svc, repo, _ := newTestService(seedCustomers()...)

	staff := authz.User{ID: "u-1", Role: authz.RoleUser, BranchID: "branch-2"}
	err := svc.Deactivate(context.Background(), staff, "cust-1")
	require.ErrorIs(t, err, shared.ErrForbidden)
	require.True(t, repo.customers["cust-1"].IsActive)
}
