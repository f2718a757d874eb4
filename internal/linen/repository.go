package linen

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/shared"
)

// Repository defines persistence for linen items.
type Repository interface {
	List(ctx context.Context, scope authz.BranchScope) ([]Item, error)
	Get(ctx context.Context, tagID string) (*Item, error)
	Create(ctx context.Context, item Item) (*Item, error)
	SetStatus(ctx context.Context, tagID string, status Status, incrementWash bool) (*Item, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const itemColumns = `tag_id, type, customer_id, branch_id, status, wash_cycles, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	if err := row.Scan(&i.TagID, &i.Type, &i.CustomerID, &i.BranchID,
		&i.Status, &i.WashCycles, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// List returns items within scope ordered by tag.
func (r *PGRepository) List(ctx context.Context, scope authz.BranchScope) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM linen_items`
	args := []any{}
	if !scope.All() {
		query += ` WHERE branch_id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY tag_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.TagID, &i.Type, &i.CustomerID, &i.BranchID,
			&i.Status, &i.WashCycles, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Get fetches an item by tag.
func (r *PGRepository) Get(ctx context.Context, tagID string) (*Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM linen_items WHERE tag_id = $1`, tagID)
	return scanItem(row)
}

// Create registers a new tag. New items start in stock with zero wash
// cycles.
func (r *PGRepository) Create(ctx context.Context, item Item) (*Item, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO linen_items
(tag_id, type, customer_id, branch_id, status, wash_cycles, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
RETURNING `+itemColumns,
		item.TagID, item.Type, item.CustomerID, item.BranchID, StatusInStock)
	created, err := scanItem(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

// SetStatus moves an item to a new status, optionally bumping the wash
// counter in the same statement.
func (r *PGRepository) SetStatus(ctx context.Context, tagID string, status Status, incrementWash bool) (*Item, error) {
	bump := 0
	if incrementWash {
		bump = 1
	}
	row := r.pool.QueryRow(ctx, `UPDATE linen_items
SET status = $2, wash_cycles = wash_cycles + $3, updated_at = NOW()
WHERE tag_id = $1
RETURNING `+itemColumns, tagID, status, bump)
	return scanItem(row)
}

var _ Repository = (*PGRepository)(nil)
