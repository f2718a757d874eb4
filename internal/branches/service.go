package branches

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

// Service orchestrates branch master data operations.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser returns the branches visible to the user. Superadmins see
// everything; everyone else sees only their accessible branches.
func (s *Service) ListForUser(ctx context.Context, user authz.User) ([]Branch, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Branch{}, nil
	}
	return s.repo.List(ctx, scope)
}

// Get fetches one branch, enforcing branch access for the caller.
func (s *Service) Get(ctx context.Context, user authz.User, id string) (*Branch, error) {
	if !authz.CanAccessBranch(user, id) {
		return nil, fmt.Errorf("%w: branch %s", shared.ErrForbidden, id)
	}
	return s.repo.Get(ctx, id)
}

// Create provisions a new branch. The settings-level permission gate
// sits in the HTTP middleware; the service validates the payload.
func (s *Service) Create(ctx context.Context, form BranchForm) (*Branch, error) {
	name := strings.TrimSpace(form.Name)
	code := strings.TrimSpace(form.Code)
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: name and code are required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, Branch{
		ID:      "branch-" + uuid.NewString(),
		Name:    name,
		Code:    strings.ToUpper(code),
		Address: strings.TrimSpace(form.Address),
		Phone:   strings.TrimSpace(form.Phone),
	})
}

// Update modifies branch master data.
func (s *Service) Update(ctx context.Context, id string, form BranchForm) (*Branch, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return s.repo.Update(ctx, Branch{
		ID:      id,
		Name:    name,
		Code:    strings.ToUpper(strings.TrimSpace(form.Code)),
		Address: strings.TrimSpace(form.Address),
		Phone:   strings.TrimSpace(form.Phone),
	})
}

// Deactivate flags a branch inactive.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}
