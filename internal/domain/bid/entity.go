// internal/domain/bid/entity.go
package bid

import (
	"database/sql"
	"time"
)

type BidStatus string

const (
	StatusPending   BidStatus = "pending"
	StatusAccepted  BidStatus = "accepted"
	StatusDeclined  BidStatus = "declined"
	StatusWithdrawn BidStatus = "withdrawn"
)

type Bid struct {
	ID           int64  `json:"id" db:"id"`
	BidReference string `json:"bid_reference" db:"bid_reference"`

	JobID        int64 `json:"job_id" db:"job_id"`
	ConsultantID int64 `json:"consultant_id" db:"consultant_id"`

	Amount       float64        `json:"amount" db:"amount"`
	Currency     string         `json:"currency" db:"currency"`
	DeliveryDays int            `json:"delivery_days" db:"delivery_days"`
	CoverNote    sql.NullString `json:"cover_note,omitempty" db:"cover_note"`

	Status BidStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the bid is still awaiting a client decision.
func (b *Bid) IsOpen() bool {
	return b.Status == StatusPending
}
