package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/shared"
)

// Repository defines persistence for user accounts.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
	Update(ctx context.Context, user User) (*User, error)
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

const userColumns = `u.id, u.email, u.name, u.password_hash, u.role, u.branch_id,
       u.is_active, u.created_at, u.updated_at,
       COALESCE(ARRAY_AGG(ub.branch_id) FILTER (WHERE ub.branch_id IS NOT NULL), '{}') AS branch_ids`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.BranchID,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.BranchIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all accounts ordered by name.
func (r *PGRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+`
FROM users u
LEFT JOIN user_branches ub ON ub.user_id = u.id
GROUP BY u.id
ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.BranchID,
			&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.BranchIDs); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get fetches one account with its branch assignments.
func (r *PGRepository) Get(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+`
FROM users u
LEFT JOIN user_branches ub ON ub.user_id = u.id
WHERE u.id = $1
GROUP BY u.id`, id)
	return scanUser(row)
}

// Create inserts the account row and its branch assignments in one
// transaction.
func (r *PGRepository) Create(ctx context.Context, user User) (*User, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO users (id, email, name, password_hash, role, branch_id, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())`,
			user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.BranchID)
		if err != nil {
			return err
		}
		return replaceBranchAssignments(ctx, tx, user.ID, user.BranchIDs)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return r.Get(ctx, user.ID)
}

// Update rewrites the account row and its branch assignments. An empty
// PasswordHash keeps the stored hash.
func (r *PGRepository) Update(ctx context.Context, user User) (*User, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users
SET name = $2,
    role = $3,
    branch_id = $4,
    password_hash = CASE WHEN $5 = '' THEN password_hash ELSE $5 END,
    updated_at = NOW()
WHERE id = $1`,
			user.ID, user.Name, user.Role, user.BranchID, user.PasswordHash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return replaceBranchAssignments(ctx, tx, user.ID, user.BranchIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, user.ID)
}

// Deactivate flags the account inactive. Accounts are never deleted;
// activity logs keep referencing them.
func (r *PGRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func replaceBranchAssignments(ctx context.Context, tx pgx.Tx, userID string, branchIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_branches WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, branchID := range branchIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO user_branches (user_id, branch_id) VALUES ($1, $2)`, userID, branchID); err != nil {
			return err
		}
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
