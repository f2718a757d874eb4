package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/shared"
)

// Repository defines persistence for customers.
type Repository interface {
	List(ctx context.Context, scope authz.BranchScope) ([]Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, customer Customer) (*Customer, error)
	Update(ctx context.Context, customer Customer) (*Customer, error)
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

const customerColumns = `id, name, contact_person, email, phone, address, branch_id,
       customer_type, tax_id, credit_limit, current_balance, payment_terms,
       is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Email, &c.Phone, &c.Address,
		&c.BranchID, &c.CustomerType, &c.TaxID, &c.CreditLimit, &c.CurrentBalance,
		&c.PaymentTerms, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns customers within scope ordered by name.
func (r *PGRepository) List(ctx context.Context, scope authz.BranchScope) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if !scope.All() {
		query += ` WHERE branch_id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Email, &c.Phone, &c.Address,
			&c.BranchID, &c.CustomerType, &c.TaxID, &c.CreditLimit, &c.CurrentBalance,
			&c.PaymentTerms, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Get fetches a customer by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// Create inserts a new customer.
func (r *PGRepository) Create(ctx context.Context, customer Customer) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO customers
(id, name, contact_person, email, phone, address, branch_id, customer_type, tax_id,
 credit_limit, current_balance, payment_terms, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,0,$11,TRUE,NOW(),NOW())
RETURNING `+customerColumns,
		customer.ID, customer.Name, customer.ContactPerson, customer.Email, customer.Phone,
		customer.Address, customer.BranchID, customer.CustomerType, customer.TaxID,
		customer.CreditLimit, customer.PaymentTerms)
	created, err := scanCustomer(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

// Update modifies an existing customer. The owning branch never
// changes; records do not migrate between branches.
func (r *PGRepository) Update(ctx context.Context, customer Customer) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `UPDATE customers
SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6,
    customer_type = $7, tax_id = $8, credit_limit = $9, payment_terms = $10,
    updated_at = NOW()
WHERE id = $1
RETURNING `+customerColumns,
		customer.ID, customer.Name, customer.ContactPerson, customer.Email, customer.Phone,
		customer.Address, customer.CustomerType, customer.TaxID, customer.CreditLimit,
		customer.PaymentTerms)
	return scanCustomer(row)
}

// Deactivate flags a customer inactive.
func (r *PGRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE customers SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
