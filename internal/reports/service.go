package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/linenflow/linenflow/internal/authz"
)

// Service computes dashboard aggregates with a versioned Redis cache
// in front and singleflight collapsing concurrent misses.
type Service struct {
	repo  Repository
	cache *Cache
	group singleflight.Group
	now   func() time.Time
}

// NewService constructs a Service. cache may be nil in tests.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Summary returns the four KPI cards for the user's branch scope,
// comparing the current month against the previous one.
func (s *Service) Summary(ctx context.Context, user authz.User) (*KPISummary, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return &KPISummary{}, nil
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)

	loader := func(ctx context.Context) (any, error) {
		current, err := s.repo.PeriodStats(ctx, scope, monthStart, monthStart.AddDate(0, 1, 0))
		if err != nil {
			return nil, err
		}
		previous, err := s.repo.PeriodStats(ctx, scope, prevStart, monthStart)
		if err != nil {
			return nil, err
		}
		return &KPISummary{
			TotalOrders:    metric(float64(current.TotalOrders), float64(previous.TotalOrders)),
			ActiveOrders:   metric(float64(current.ActiveOrders), float64(current.ActiveOrders)),
			MonthlyRevenue: metric(current.Revenue, previous.Revenue),
			TotalCustomers: metric(float64(current.TotalCustomers), float64(current.TotalCustomers)),
		}, nil
	}

	key, err := s.cache.BuildKey(ctx, "reports", "kpi", scopeKey(scope), monthStart.Format("2006-01"))
	if err != nil {
		return nil, err
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		var summary KPISummary
		if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
			return nil, err
		}
		return &summary, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*KPISummary), nil
}

// RevenueByBranch returns the current month's per-branch breakdown.
func (s *Service) RevenueByBranch(ctx context.Context, user authz.User) ([]BranchRevenue, error) {
	scope := authz.AccessibleBranches(user)
	if scope.IsEmpty() {
		return []BranchRevenue{}, nil
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	key, err := s.cache.BuildKey(ctx, "reports", "branch-revenue", scopeKey(scope), monthStart.Format("2006-01"))
	if err != nil {
		return nil, err
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		var rows []BranchRevenue
		err := s.cache.FetchJSON(ctx, key, &rows, func(ctx context.Context) (any, error) {
			return s.repo.RevenueByBranch(ctx, scope, monthStart, monthStart.AddDate(0, 1, 0))
		})
		if err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]BranchRevenue), nil
}

// Invalidate bumps the cache version. Called after business writes
// that move the dashboard numbers.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// scopeKey derives a stable cache-key fragment from a branch scope.
func scopeKey(scope authz.BranchScope) string {
	if scope.All() {
		return "all"
	}
	ids := append([]string(nil), scope.IDs()...)
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
