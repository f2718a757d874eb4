package users

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/shared"
)

// Service handles account management.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all accounts with password hashes blanked.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Get returns one account with the password hash blanked.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Create provisions an account. The password is bcrypt-hashed and the
// branch assignment normalised before the write.
func (s *Service) Create(ctx context.Context, form CreateForm) (*User, error) {
	role := authz.Role(form.Role)
	branchIDs, err := normalizeBranchAssignment(role, form.BranchID, form.BranchIDs)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.repo.Create(ctx, User{
		ID:           "user-" + uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(form.Email)),
		Name:         strings.TrimSpace(form.Name),
		PasswordHash: string(hash),
		Role:         role,
		BranchID:     form.BranchID,
		BranchIDs:    branchIDs,
	})
	if err != nil {
		return nil, err
	}
	created.PasswordHash = ""
	return created, nil
}

// Update rewrites an account. An empty form password keeps the stored
// hash.
func (s *Service) Update(ctx context.Context, id string, form UpdateForm) (*User, error) {
	role := authz.Role(form.Role)
	branchIDs, err := normalizeBranchAssignment(role, form.BranchID, form.BranchIDs)
	if err != nil {
		return nil, err
	}
	var hash string
	if form.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(hashed)
	}
	updated, err := s.repo.Update(ctx, User{
		ID:           id,
		Name:         strings.TrimSpace(form.Name),
		PasswordHash: hash,
		Role:         role,
		BranchID:     form.BranchID,
		BranchIDs:    branchIDs,
	})
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

// Deactivate flags an account inactive. A caller can never deactivate
// themselves: the last superadmin locking everyone out is not a
// recoverable state.
func (s *Service) Deactivate(ctx context.Context, actor authz.User, id string) error {
	if actor.ID == id {
		return fmt.Errorf("%w: cannot deactivate own account", shared.ErrValidation)
	}
	return s.repo.Deactivate(ctx, id)
}

// normalizeBranchAssignment applies the branch-set rules per role:
// admins must carry an explicit set that includes their primary branch,
// users carry none (their single branch_id decides access), and
// superadmins carry none (their role grants everything).
func normalizeBranchAssignment(role authz.Role, branchID string, branchIDs []string) ([]string, error) {
	switch role {
	case authz.RoleAdmin:
		if !slices.Contains(branchIDs, branchID) {
			return nil, fmt.Errorf("%w: admin branch set must include the primary branch", shared.ErrValidation)
		}
		return dedupe(branchIDs), nil
	case authz.RoleUser, authz.RoleSuperadmin:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, role)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
