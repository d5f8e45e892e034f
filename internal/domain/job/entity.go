// internal/domain/job/entity.go
package job

import (
	"database/sql"
	"time"
)

type JobStatus string

const (
	StatusDraft   JobStatus = "draft"
	StatusOpen    JobStatus = "open"
	StatusAwarded JobStatus = "awarded"
	StatusClosed  JobStatus = "closed"
	StatusExpired JobStatus = "expired"
)

type Job struct {
	ID           int64  `json:"id" db:"id"`
	JobReference string `json:"job_reference" db:"job_reference"`

	// Owner
	ClientID int64 `json:"client_id" db:"client_id"`

	// Bilingual content
	TitleEn       string         `json:"title_en" db:"title_en"`
	TitleAr       sql.NullString `json:"title_ar,omitempty" db:"title_ar"`
	DescriptionEn string         `json:"description_en" db:"description_en"`
	DescriptionAr sql.NullString `json:"description_ar,omitempty" db:"description_ar"`

	// Classification
	Category string   `json:"category" db:"category"`
	Tags     []string `json:"tags,omitempty" db:"tags"`

	// Budget and schedule
	BudgetMin sql.NullFloat64 `json:"budget_min,omitempty" db:"budget_min"`
	BudgetMax sql.NullFloat64 `json:"budget_max,omitempty" db:"budget_max"`
	Currency  string          `json:"currency" db:"currency"`
	Deadline  sql.NullTime    `json:"deadline,omitempty" db:"deadline"`

	// Lifecycle
	Status       JobStatus     `json:"status" db:"status"`
	AwardedBidID sql.NullInt64 `json:"awarded_bid_id,omitempty" db:"awarded_bid_id"`
	BidCount     int           `json:"bid_count" db:"bid_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanReceiveBids reports whether the job accepts new bids.
func (j *Job) CanReceiveBids() bool {
	return j.Status == StatusOpen
}
