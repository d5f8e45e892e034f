// internal/domain/plan/entity.go
package plan

import (
	"database/sql"
	"time"
)

type PlanStatus string

const (
	StatusActive   PlanStatus = "active"
	StatusRetired  PlanStatus = "retired"
	StatusInactive PlanStatus = "inactive"
)

type SubscriptionPlan struct {
	ID       int64  `json:"id" db:"id"`
	PlanCode string `json:"plan_code" db:"plan_code"`

	// Bilingual presentation
	NameEn        string         `json:"name_en" db:"name_en"`
	NameAr        sql.NullString `json:"name_ar,omitempty" db:"name_ar"`
	DescriptionEn sql.NullString `json:"description_en,omitempty" db:"description_en"`
	DescriptionAr sql.NullString `json:"description_ar,omitempty" db:"description_ar"`

	// Pricing
	Price        float64 `json:"price" db:"price"`
	Currency     string  `json:"currency" db:"currency"`
	BillingCycle string  `json:"billing_cycle" db:"billing_cycle"`

	// Allowances
	BidsPerMonth    sql.NullInt32 `json:"bids_per_month,omitempty" db:"bids_per_month"`
	FeaturedProfile bool          `json:"featured_profile" db:"featured_profile"`

	Status   PlanStatus `json:"status" db:"status"`
	IsPublic bool       `json:"is_public" db:"is_public"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subscription records a consultant's enrolment on a plan. BidsUsed counts
// bids inside the current calendar-month window starting at PeriodStart; the
// repository zeroes it when the month rolls over.
type Subscription struct {
	ID           int64        `json:"id" db:"id"`
	ConsultantID int64        `json:"consultant_id" db:"consultant_id"`
	PlanID       int64        `json:"plan_id" db:"plan_id"`
	StartedAt    time.Time    `json:"started_at" db:"started_at"`
	ExpiresAt    sql.NullTime `json:"expires_at,omitempty" db:"expires_at"`
	PeriodStart  time.Time    `json:"period_start" db:"period_start"`
	BidsUsed     int          `json:"bids_used" db:"bids_used"`
	Status       string       `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the subscription's term has lapsed.
func (s *Subscription) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Valid && !s.ExpiresAt.Time.After(now)
}
