package branches

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/shared"
)

// Repository defines persistence for branches.
type Repository interface {
	List(ctx context.Context, scope authz.BranchScope) ([]Branch, error)
	Get(ctx context.Context, id string) (*Branch, error)
	Create(ctx context.Context, branch Branch) (*Branch, error)
	Update(ctx context.Context, branch Branch) (*Branch, error)
	Deactivate(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const branchColumns = `id, name, code, address, phone, is_active, created_at, updated_at`

func scanBranch(row pgx.Row) (*Branch, error) {
	var b Branch
	if err := row.Scan(&b.ID, &b.Name, &b.Code, &b.Address, &b.Phone,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns branches within scope ordered by name.
func (r *PGRepository) List(ctx context.Context, scope authz.BranchScope) ([]Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches`
	args := []any{}
	if !scope.All() {
		query += ` WHERE id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := []Branch{}
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.Address, &b.Phone,
			&b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// Get fetches a branch by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Branch, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id)
	return scanBranch(row)
}

// Create inserts a new branch.
func (r *PGRepository) Create(ctx context.Context, branch Branch) (*Branch, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO branches (id, name, code, address, phone, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
RETURNING `+branchColumns,
		branch.ID, branch.Name, branch.Code, branch.Address, branch.Phone)
	created, err := scanBranch(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

// Update modifies an existing branch.
func (r *PGRepository) Update(ctx context.Context, branch Branch) (*Branch, error) {
	row := r.pool.QueryRow(ctx, `UPDATE branches
SET name = $2, code = $3, address = $4, phone = $5, updated_at = NOW()
WHERE id = $1
RETURNING `+branchColumns,
		branch.ID, branch.Name, branch.Code, branch.Address, branch.Phone)
	updated, err := scanBranch(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return updated, nil
}

// Deactivate flags a branch inactive. Branch rows are never deleted;
// business records keep referencing them.
func (r *PGRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE branches SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
