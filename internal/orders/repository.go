package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/shared"
)

// Repository defines persistence for job orders.
type Repository interface {
	List(ctx context.Context, scope authz.BranchScope) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, order Order) (*Order, error)
	SetStatus(ctx context.Context, id string, status Status, at time.Time) (*Order, error)
	NextOrderNumber(ctx context.Context, year int) (int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const orderColumns = `o.id, o.order_number, o.customer_id, c.name, o.branch_id, o.service_type,
       o.status, o.weight, o.item_count, o.received_at, o.due_date, o.completed_at,
       o.delivered_at, o.assigned_to, o.service_price, o.total_price, o.created_by,
       o.created_at, o.updated_at`

const orderFrom = ` FROM job_orders o JOIN customers c ON c.id = o.customer_id`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.BranchID,
		&o.ServiceType, &o.Status, &o.Weight, &o.ItemCount, &o.ReceivedAt, &o.DueDate,
		&o.CompletedAt, &o.DeliveredAt, &o.AssignedTo, &o.ServicePrice, &o.TotalPrice,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.BranchID,
			&o.ServiceType, &o.Status, &o.Weight, &o.ItemCount, &o.ReceivedAt, &o.DueDate,
			&o.CompletedAt, &o.DeliveredAt, &o.AssignedTo, &o.ServicePrice, &o.TotalPrice,
			&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// List returns orders within scope, newest first.
func (r *PGRepository) List(ctx context.Context, scope authz.BranchScope) ([]Order, error) {
	query := `SELECT ` + orderColumns + orderFrom
	args := []any{}
	if !scope.All() {
		query += ` WHERE o.branch_id = ANY($1)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY o.received_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// ListByCustomer returns a customer's orders, newest first.
func (r *PGRepository) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+orderFrom+`
WHERE o.customer_id = $1 ORDER BY o.received_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// Get fetches one order.
func (r *PGRepository) Get(ctx context.Context, id string) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id = $1`, id)
	return scanOrder(row)
}

// Create inserts a new order.
func (r *PGRepository) Create(ctx context.Context, order Order) (*Order, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO job_orders
(id, order_number, customer_id, branch_id, service_type, status, weight, item_count,
 received_at, due_date, assigned_to, service_price, total_price, created_by, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW())`,
		order.ID, order.OrderNumber, order.CustomerID, order.BranchID, order.ServiceType,
		order.Status, order.Weight, order.ItemCount, order.ReceivedAt, order.DueDate,
		order.AssignedTo, order.ServicePrice, order.TotalPrice, order.CreatedBy)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return r.Get(ctx, order.ID)
}

// SetStatus moves an order to a new status, stamping the matching
// timestamp column.
func (r *PGRepository) SetStatus(ctx context.Context, id string, status Status, at time.Time) (*Order, error) {
	var err error
	switch status {
	case StatusCompleted:
		_, err = r.pool.Exec(ctx, `UPDATE job_orders SET status = $2, completed_at = $3, updated_at = NOW() WHERE id = $1`, id, status, at)
	case StatusDelivered:
		_, err = r.pool.Exec(ctx, `UPDATE job_orders SET status = $2, delivered_at = $3, updated_at = NOW() WHERE id = $1`, id, status, at)
	default:
		_, err = r.pool.Exec(ctx, `UPDATE job_orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// NextOrderNumber reserves the next sequence value for the year's
// order numbers.
func (r *PGRepository) NextOrderNumber(ctx context.Context, year int) (int, error) {
	var seq int
	err := r.pool.QueryRow(ctx, `INSERT INTO order_sequences (year, last_value)
VALUES ($1, 1)
ON CONFLICT (year) DO UPDATE SET last_value = order_sequences.last_value + 1
RETURNING last_value`, year).Scan(&seq)
	return seq, err
}

var _ Repository = (*PGRepository)(nil)
