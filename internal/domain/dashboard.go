package domain

import "time"

// DashboardReport aggregates per-owner item counts. It is a transient,
// request-scoped value recomputed on every query, never persisted.
//
// Pending is total minus completed, floored at zero. DueSoon counts items
// whose due date falls within the forward-looking window regardless of
// completion state; the asymmetry with Pending is intentional and matches
// the system's defined behavior.
type DashboardReport struct {
	Total       int64     `json:"total"`
	Completed   int64     `json:"completed"`
	Pending     int64     `json:"pending"`
	DueSoon     int64     `json:"due_soon"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewDashboardReport combines the two independently computed statistics
// into one report, deriving the pending count.
func NewDashboardReport(total, completed, dueSoon int64) *DashboardReport {
	pending := total - completed
	if pending < 0 {
		pending = 0
	}
	return &DashboardReport{
		Total:       total,
		Completed:   completed,
		Pending:     pending,
		DueSoon:     dueSoon,
		GeneratedAt: time.Now().UTC(),
	}
}
