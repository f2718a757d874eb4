package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linenflow/linenflow/internal/authz"
)

// PeriodStats are the raw aggregates for one reporting period.
type PeriodStats struct {
	TotalOrders    int
	ActiveOrders   int
	Revenue        float64
	TotalCustomers int
}

// Repository defines the aggregate queries behind the dashboard.
type Repository interface {
	PeriodStats(ctx context.Context, scope authz.BranchScope, from, to time.Time) (*PeriodStats, error)
	RevenueByBranch(ctx context.Context, scope authz.BranchScope, from, to time.Time) ([]BranchRevenue, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// PeriodStats aggregates order and revenue figures for the window.
// Active orders count against the current state, not the window.
func (r *PGRepository) PeriodStats(ctx context.Context, scope authz.BranchScope, from, to time.Time) (*PeriodStats, error) {
	var stats PeriodStats

	args := []any{from, to}
	ordersQuery := `SELECT COUNT(*), COALESCE(SUM(total_price), 0)
FROM job_orders WHERE received_at >= $1 AND received_at < $2 AND status <> 'cancelled'`
	if !scope.All() {
		ordersQuery += ` AND branch_id = ANY($3)`
		args = append(args, scope.IDs())
	}
	if err := r.pool.QueryRow(ctx, ordersQuery, args...).Scan(&stats.TotalOrders, &stats.Revenue); err != nil {
		return nil, err
	}

	activeQuery := `SELECT COUNT(*) FROM job_orders WHERE status IN ('pending', 'processing')`
	activeArgs := []any{}
	if !scope.All() {
		activeQuery += ` AND branch_id = ANY($1)`
		activeArgs = append(activeArgs, scope.IDs())
	}
	if err := r.pool.QueryRow(ctx, activeQuery, activeArgs...).Scan(&stats.ActiveOrders); err != nil {
		return nil, err
	}

	customersQuery := `SELECT COUNT(*) FROM customers WHERE is_active`
	customerArgs := []any{}
	if !scope.All() {
		customersQuery += ` AND branch_id = ANY($1)`
		customerArgs = append(customerArgs, scope.IDs())
	}
	if err := r.pool.QueryRow(ctx, customersQuery, customerArgs...).Scan(&stats.TotalCustomers); err != nil {
		return nil, err
	}

	return &stats, nil
}

// RevenueByBranch breaks revenue and expenses down per branch for the
// window.
func (r *PGRepository) RevenueByBranch(ctx context.Context, scope authz.BranchScope, from, to time.Time) ([]BranchRevenue, error) {
	query := `SELECT b.id,
       COALESCE(o.orders, 0),
       COALESCE(o.revenue, 0),
       COALESCE(e.expenses, 0)
FROM branches b
LEFT JOIN (
    SELECT branch_id, COUNT(*) AS orders, SUM(total_price) AS revenue
    FROM job_orders
    WHERE received_at >= $1 AND received_at < $2 AND status <> 'cancelled'
    GROUP BY branch_id
) o ON o.branch_id = b.id
LEFT JOIN (
    SELECT branch_id, SUM(amount) AS expenses
    FROM expenses
    WHERE expense_date >= $1 AND expense_date < $2
    GROUP BY branch_id
) e ON e.branch_id = b.id`
	args := []any{from, to}
	if !scope.All() {
		query += ` WHERE b.id = ANY($3)`
		args = append(args, scope.IDs())
	}
	query += ` ORDER BY b.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BranchRevenue{}
	for rows.Next() {
		var br BranchRevenue
		if err := rows.Scan(&br.BranchID, &br.Orders, &br.Revenue, &br.Expenses); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
