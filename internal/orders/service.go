package orders

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

// Service orchestrates job order intake and lifecycle.
type Service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

// ListForUser returns orders visible to the user.
func (s *Service) ListForUser(ctx context.Context, user authz.User) ([]Order, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Order{}, nil
	}
	orders, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, orders), nil
}

// ListForCustomer returns a customer's orders the user may see.
func (s *Service) ListForCustomer(ctx context.Context, user authz.User, customerID string) ([]Order, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, orders), nil
}

// Get fetches one order, enforcing branch access.
func (s *Service) Get(ctx context.Context, user authz.User, id string) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessBranch(user, order.BranchID) {
		return nil, fmt.Errorf("%w: order %s", shared.ErrForbidden, id)
	}
	return order, nil
}

// Create books a new job order. The order number is JO-<year>-<seq>
// and the total derives from weight and the per-kg price.
func (s *Service) Create(ctx context.Context, user authz.User, form Form) (*Order, error) {
	if !authz.CanAccessBranch(user, form.BranchID) {
		return nil, fmt.Errorf("%w: branch %s", shared.ErrForbidden, form.BranchID)
	}
	now := s.now().UTC()
	seq, err := s.repo.NextOrderNumber(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("reserve order number: %w", err)
	}
	total := math.Round(form.Weight*form.ServicePrice*100) / 100
	order, err := s.repo.Create(ctx, Order{
		ID:           "job-" + uuid.NewString(),
		OrderNumber:  fmt.Sprintf("JO-%d-%03d", now.Year(), seq),
		CustomerID:   form.CustomerID,
		BranchID:     form.BranchID,
		ServiceType:  form.ServiceType,
		Status:       StatusPending,
		Weight:       form.Weight,
		ItemCount:    form.ItemCount,
		ReceivedAt:   now,
		DueDate:      form.DueDate,
		AssignedTo:   form.AssignedTo,
		ServicePrice: form.ServicePrice,
		TotalPrice:   total,
		CreatedBy:    user.ID,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, user, audit.ActionCreated, order, "job order received")
	return order, nil
}

// Transition moves an order along its lifecycle.
func (s *Service) Transition(ctx context.Context, user authz.User, id string, to Status) (*Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, to)
	}
	order, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: cannot move order %s from %q to %q", shared.ErrValidation, order.OrderNumber, order.Status, to)
	}
	updated, err := s.repo.SetStatus(ctx, id, to, s.now().UTC())
	if err != nil {
		return nil, err
	}

	switch to {
	case StatusCompleted:
		s.record(ctx, user, audit.ActionCompleted, updated, "job order completed")
	case StatusDelivered:
		s.record(ctx, user, audit.ActionDelivered, updated, "job order delivered")
	case StatusCancelled:
		s.record(ctx, user, audit.ActionCancelled, updated, "job order cancelled")
	default:
		s.record(ctx, user, audit.ActionUpdated, updated, "job order status updated")
	}
	return updated, nil
}

func (s *Service) record(ctx context.Context, user authz.User, action string, order *Order, description string) {
	err := s.recorder.Record(ctx, audit.Entry{
		Type:        audit.TypeOrder,
		Action:      action,
		EntityType:  "order",
		EntityID:    order.ID,
		BranchID:    order.BranchID,
		Description: description,
		PerformedBy: user.ID,
		Meta:        map[string]any{"orderNumber": order.OrderNumber, "status": string(order.Status)},
	})
	if err != nil {
		s.logger.Warn("record order activity", slog.Any("error", err))
	}
}
