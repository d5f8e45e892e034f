// internal/domain/invoice/entity.go
package invoice

import (
	"database/sql"
	"time"
)

type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusIssued  InvoiceStatus = "issued"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
	StatusVoid    InvoiceStatus = "void"
)

type Invoice struct {
	ID               int64  `json:"id" db:"id"`
	InvoiceReference string `json:"invoice_reference" db:"invoice_reference"`

	// Parties
	JobID        int64 `json:"job_id" db:"job_id"`
	BidID        int64 `json:"bid_id" db:"bid_id"`
	ClientID     int64 `json:"client_id" db:"client_id"`
	ConsultantID int64 `json:"consultant_id" db:"consultant_id"`

	// Amounts
	Amount      float64 `json:"amount" db:"amount"`
	PlatformFee float64 `json:"platform_fee" db:"platform_fee"`
	Total       float64 `json:"total" db:"total"`
	Currency    string  `json:"currency" db:"currency"`

	// Lifecycle
	Status   InvoiceStatus `json:"status" db:"status"`
	IssuedAt sql.NullTime  `json:"issued_at,omitempty" db:"issued_at"`
	DueAt    sql.NullTime  `json:"due_at,omitempty" db:"due_at"`
	PaidAt   sql.NullTime  `json:"paid_at,omitempty" db:"paid_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// transitions lists the allowed status moves. Overdue is computed from
// due_at at issue time, not a user-driven transition.
var transitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:   {StatusIssued, StatusVoid},
	StatusIssued:  {StatusPaid, StatusOverdue, StatusVoid},
	StatusOverdue: {StatusPaid, StatusVoid},
}

// CanTransition reports whether moving from the current status to target is allowed.
func (i *Invoice) CanTransition(target InvoiceStatus) bool {
	for _, s := range transitions[i.Status] {
		if s == target {
			return true
		}
	}
	return false
}
