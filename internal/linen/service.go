package linen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

// Service orchestrates linen item tracking.
type Service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// ListForUser returns items visible to the user.
func (s *Service) ListForUser(ctx context.Context, user authz.User) ([]Item, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Item{}, nil
	}
	items, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, items), nil
}

// Get fetches one item, enforcing branch access.
func (s *Service) Get(ctx context.Context, user authz.User, tagID string) (*Item, error) {
	item, err := s.repo.Get(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessBranch(user, item.BranchID) {
		return nil, fmt.Errorf("%w: item %s", shared.ErrForbidden, tagID)
	}
	return item, nil
}

// Create registers a new tag in a branch the caller can access.
func (s *Service) Create(ctx context.Context, user authz.User, form Form) (*Item, error) {
	if !authz.CanAccessBranch(user, form.BranchID) {
		return nil, fmt.Errorf("%w: branch %s", shared.ErrForbidden, form.BranchID)
	}
	item, err := s.repo.Create(ctx, Item{
		TagID:      strings.TrimSpace(form.TagID),
		Type:       strings.TrimSpace(form.Type),
		CustomerID: form.CustomerID,
		BranchID:   form.BranchID,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, user, audit.TypeInventory, audit.ActionCreated, item, "linen item registered")
	return item, nil
}

// Transition moves an item along the rental-wash cycle. The wash
// counter increments when a wash completes, i.e. on the move back to
// stock.
func (s *Service) Transition(ctx context.Context, user authz.User, tagID string, to Status) (*Item, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, to)
	}
	item, err := s.Get(ctx, user, tagID)
	if err != nil {
		return nil, err
	}
	if !NextStatus(item.Status, to) {
		return nil, fmt.Errorf("%w: cannot move %s from %q to %q", shared.ErrValidation, tagID, item.Status, to)
	}
	washCompleted := item.Status == StatusWashing && to == StatusInStock
	updated, err := s.repo.SetStatus(ctx, tagID, to, washCompleted)
	if err != nil {
		return nil, err
	}

	switch to {
	case StatusOnRent:
		s.record(ctx, user, audit.TypeRental, audit.ActionDelivered, updated, "item checked out to customer")
	case StatusWashing:
		s.record(ctx, user, audit.TypeInventory, audit.ActionReturned, updated, "item checked in for washing")
	case StatusInStock:
		s.record(ctx, user, audit.TypeCleaning, audit.ActionCompleted, updated, "wash cycle completed")
	}
	return updated, nil
}

func (s *Service) record(ctx context.Context, user authz.User, entryType, action string, item *Item, description string) {
	err := s.recorder.Record(ctx, audit.Entry{
		Type:        entryType,
		Action:      action,
		EntityType:  "linen_item",
		EntityID:    item.TagID,
		BranchID:    item.BranchID,
		Description: description,
		PerformedBy: user.ID,
		Meta:        map[string]any{"status": string(item.Status), "washCycles": item.WashCycles},
	})
	if err != nil {
		s.logger.Warn("record linen activity", slog.Any("error", err))
	}
}
