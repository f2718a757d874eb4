package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
)

// Repository lists persisted activity entries.
type Repository interface {
	List(ctx context.Context, scope authz.BranchScope, limit int) ([]Entry, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns the newest entries within scope.
func (r *PGRepository) List(ctx context.Context, scope authz.BranchScope, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, type, action, entity_type, entity_id, branch_id, description, performed_by, meta, occurred_at
FROM activity_logs`
	args := []any{}
	if !scope.All() {
		query += ` WHERE branch_id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += fmt.Sprintf(` ORDER BY occurred_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var metaJSON []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.Action, &e.EntityType, &e.EntityID,
			&e.BranchID, &e.Description, &e.PerformedBy, &metaJSON, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Service lists activity for a user, narrowed to their branch scope.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser returns the activity entries the user may see. An empty
// scope (admin without branch assignments) short-circuits to nothing.
func (s *Service) ListForUser(ctx context.Context, user authz.User, limit int) ([]Entry, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("audit: service not initialised")
	}
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []Entry{}, nil
	}
	entries, err := s.repo.List(ctx, scope, limit)
	if err != nil {
		return nil, err
	}
	return authz.FilterByBranchAccess(user, entries), nil
}

var _ Repository = (*PGRepository)(nil)
