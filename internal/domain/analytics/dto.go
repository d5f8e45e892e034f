// internal/domain/analytics/dto.go
package analytics

// DashboardStats are the headline counters on the admin dashboard.
type DashboardStats struct {
	TotalClients     int64   `json:"total_clients"`
	TotalConsultants int64   `json:"total_consultants"`
	OpenJobs         int64   `json:"open_jobs"`
	AwardedJobs      int64   `json:"awarded_jobs"`
	PendingBids      int64   `json:"pending_bids"`
	FlaggedMessages  int64   `json:"flagged_messages"`
	PaidInvoices     int64   `json:"paid_invoices"`
	TotalRevenue     float64 `json:"total_revenue"`
}

type MonthlyRevenuePoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Fees    float64 `json:"fees"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Jobs     int64  `json:"jobs"`
}
