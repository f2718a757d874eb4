package orders

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

type memoryRepo struct {
	order     []string
	orders    map[string]Order
	sequences map[int]int
}

func newMemoryRepo(orders ...Order) *memoryRepo {
	r := &memoryRepo{orders: map[string]Order{}, sequences: map[int]int{}}
	for _, o := range orders {
		r.order = append(r.order, o.ID)
		r.orders[o.ID] = o
	}
	return r
}

func (r *memoryRepo) List(_ context.Context, scope authz.BranchScope) ([]Order, error) {
	out := []Order{}
	for _, id := range r.order {
		o := r.orders[id]
		if scope.Contains(o.BranchID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListByCustomer(_ context.Context, customerID string) ([]Order, error) {
	out := []Order{}
	for _, id := range r.order {
		o := r.orders[id]
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *memoryRepo) Create(_ context.Context, order Order) (*Order, error) {
	r.order = append(r.order, order.ID)
	r.orders[order.ID] = order
	return &order, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, id string, status Status, at time.Time) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	o.Status = status
	switch status {
	case StatusCompleted:
		o.CompletedAt = &at
	case StatusDelivered:
		o.DeliveredAt = &at
	}
	r.orders[id] = o
	return &o, nil
}

func (r *memoryRepo) NextOrderNumber(_ context.Context, year int) (int, error) {
	r.sequences[year]++
	return r.sequences[year], nil
}

var _ Repository = (*memoryRepo)(nil)

type memoryRecorder struct {
	entries []audit.Entry
}

func (r *memoryRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTestService(orders ...Order) (*Service, *memoryRepo, *memoryRecorder) {
	repo := newMemoryRepo(orders...)
	recorder := &memoryRecorder{}
	svc := NewService(repo, recorder, slog.Default())
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, repo, recorder
}

func intakeForm() Form {
	return Form{
		CustomerID:   "cust-1",
		BranchID:     "branch-1",
		ServiceType:  ServiceWashFold,
		Weight:       125.5,
		ItemCount:    450,
		DueDate:      time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC),
		ServicePrice: 15,
	}
}

func TestCreateNumbersAndPricesOrder(t *testing.T) {
	svc, _, recorder := newTestService()

	admin := authz.User{ID: "u-2", Role: authz.RoleAdmin, BranchID: "branch-1", BranchIDs: []string{"branch-1"}}
	order, err := svc.Create(context.Background(), admin, intakeForm())
	require.NoError(t, err)
	require.Equal(t, "JO-2024-001", order.OrderNumber)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, 1882.5, order.TotalPrice)
	require.Equal(t, "u-2", order.CreatedBy)

	second, err := svc.Create(context.Background(), admin, intakeForm())
	require.NoError(t, err)
	require.Equal(t, "JO-2024-002", second.OrderNumber)

	require.Len(t, recorder.entries, 2)
	require.Equal(t, audit.TypeOrder, recorder.entries[0].Type)
	require.Equal(t, audit.ActionCreated, recorder.entries[0].Action)
}

func TestCreateRejectsInaccessibleBranch(t *testing.T) {
	svc, _, _ := newTestService()

	staff := authz.User{ID: "u-3", Role: authz.RoleUser, BranchID: "branch-2"}
	_, err := svc.Create(context.Background(), staff, intakeForm())
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestLifecycleToDelivery(t *testing.T) {
	svc, _, recorder := newTestService(Order{ID: "job-1", OrderNumber: "JO-2024-001", BranchID: "branch-1", Status: StatusPending})

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	ctx := context.Background()

	order, err := svc.Transition(ctx, su, "job-1", StatusProcessing)
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, order.Status)

	order, err = svc.Transition(ctx, su, "job-1", StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, order.CompletedAt)

	order, err = svc.Transition(ctx, su, "job-1", StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, order.DeliveredAt)

	require.Equal(t, audit.ActionCompleted, recorder.entries[1].Action)
	require.Equal(t, audit.ActionDelivered, recorder.entries[2].Action)
}

func TestCancelOnlyBeforeCompletion(t *testing.T) {
	svc, _, _ := newTestService(
		Order{ID: "job-1", BranchID: "branch-1", Status: StatusProcessing},
		Order{ID: "job-2", BranchID: "branch-1", Status: StatusCompleted},
	)

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	ctx := context.Background()

	order, err := svc.Transition(ctx, su, "job-1", StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, order.Status)

	_, err = svc.Transition(ctx, su, "job-2", StatusCancelled)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTransitionRejectsSkippingStages(t *testing.T) {
	svc, _, _ := newTestService(Order{ID: "job-1", BranchID: "branch-1", Status: StatusPending})

	su := authz.User{ID: "u-0", Role: authz.RoleSuperadmin}
	_, err := svc.Transition(context.Background(), su, "job-1", StatusDelivered)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListForCustomerFiltersByBranchAccess(t *testing.T) {
	svc, _, _ := newTestService(
		Order{ID: "job-1", CustomerID: "cust-1", BranchID: "branch-1", Status: StatusPending},
		Order{ID: "job-2", CustomerID: "cust-1", BranchID: "branch-2", Status: StatusPending},
	)

	staff := authz.User{ID: "u-3", Role: authz.RoleUser, BranchID: "branch-2"}
	orders, err := svc.ListForCustomer(context.Background(), staff, "cust-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "job-2", orders[0].ID)
}
