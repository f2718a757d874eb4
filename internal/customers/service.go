package customers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

// Service orchestrates customer operations.
type Service struct {
	repo     Repository
	recorder audit.Recorder
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// ListForUser returns the customers visible to the user. The repo
// narrows by scope; the collection filter is the second line of
// defence in case a row slips past.
func (s *Service) ListForUser(ctx context.Context, user authz.User) ([]Customer, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Customer{}, nil
	}
	customers, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, customers), nil
}

// Get fetches one customer, enforcing branch access.
func (s *Service) Get(ctx context.Context, user authz.User, id string) (*Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessBranch(user, customer.BranchID) {
		return nil, fmt.Errorf("%w: customer %s", shared.ErrForbidden, id)
	}
	return customer, nil
}

// Create registers a new customer in a branch the caller can access.
func (s *Service) Create(ctx context.Context, user authz.User, form Form) (*Customer, error) {
	if !authz.CanAccessBranch(user, form.BranchID) {
		return nil, fmt.Errorf("%w: branch %s", shared.ErrForbidden, form.BranchID)
	}
	customer, err := s.repo.Create(ctx, Customer{
		ID:            "cust-" + uuid.NewString(),
		Name:          strings.TrimSpace(form.Name),
		ContactPerson: strings.TrimSpace(form.ContactPerson),
		Email:         strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:         strings.TrimSpace(form.Phone),
		Address:       strings.TrimSpace(form.Address),
		BranchID:      form.BranchID,
		CustomerType:  form.CustomerType,
		TaxID:         strings.TrimSpace(form.TaxID),
		CreditLimit:   form.CreditLimit,
		PaymentTerms:  form.PaymentTerms,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, user, audit.ActionCreated, customer, "customer registered")
	return customer, nil
}

// Update modifies a customer the caller can access.
func (s *Service) Update(ctx context.Context, user authz.User, id string, form Form) (*Customer, error) {
	existing, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, Customer{
		ID:            existing.ID,
		Name:          strings.TrimSpace(form.Name),
		ContactPerson: strings.TrimSpace(form.ContactPerson),
		Email:         strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:         strings.TrimSpace(form.Phone),
		Address:       strings.TrimSpace(form.Address),
		CustomerType:  form.CustomerType,
		TaxID:         strings.TrimSpace(form.TaxID),
		CreditLimit:   form.CreditLimit,
		PaymentTerms:  form.PaymentTerms,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, user, audit.ActionUpdated, updated, "customer updated")
	return updated, nil
}

// Deactivate flags a customer inactive.
func (s *Service) Deactivate(ctx context.Context, user authz.User, id string) error {
	if _, err := s.Get(ctx, user, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) record(ctx context.Context, user authz.User, action string, customer *Customer, description string) {
	err := s.recorder.Record(ctx, audit.Entry{
		Type:        audit.TypeCustomer,
		Action:      action,
		EntityType:  "customer",
		EntityID:    customer.ID,
		BranchID:    customer.BranchID,
		Description: description,
		PerformedBy: user.ID,
	})
	if err != nil {
		// Activity logging is best effort; the business write already
		// committed.
		s.logger.Warn("record customer activity", slog.Any("error", err))
	}
}
