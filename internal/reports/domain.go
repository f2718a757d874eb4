// Package reports aggregates the dashboard KPI cards and revenue
// breakdowns. Results are cached in Redis with versioned keys and
// deduplicated with singleflight; everything is gated behind the
// view_reports permission at the router.
package reports

// ChangeType classifies a KPI movement for the dashboard card.
type ChangeType string

const (
	ChangePositive ChangeType = "positive"
	ChangeNegative ChangeType = "negative"
	ChangeNeutral  ChangeType = "neutral"
)

// Metric is one KPI card: the current value and its movement against
// the previous period.
type Metric struct {
	Value      float64    `json:"value"`
	Change     float64    `json:"change"`
	ChangeType ChangeType `json:"changeType"`
}

// KPISummary carries the four dashboard cards.
type KPISummary struct {
	TotalOrders    Metric `json:"totalOrders"`
	ActiveOrders   Metric `json:"activeOrders"`
	MonthlyRevenue Metric `json:"monthlyRevenue"`
	TotalCustomers Metric `json:"totalCustomers"`
}

// BranchRevenue is one row of the per-branch revenue breakdown.
type BranchRevenue struct {
	BranchID string  `json:"branchId"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// classify derives the movement direction from a percentage change.
func classify(change float64) ChangeType {
	switch {
	case change > 0:
		return ChangePositive
	case change < 0:
		return ChangeNegative
	}
	return ChangeNeutral
}

// metric builds a Metric from current and previous period values.
func metric(current, previous float64) Metric {
	change := 0.0
	if previous != 0 {
		change = (current - previous) / previous * 100
	} else if current != 0 {
		change = 100
	}
	return Metric{Value: current, Change: change, ChangeType: classify(change)}
}
