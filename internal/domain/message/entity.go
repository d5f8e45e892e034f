// internal/domain/message/entity.go
package message

import (
	"database/sql"
	"time"
)

type ModerationStatus string

const (
	ModerationNone     ModerationStatus = "none"
	ModerationFlagged  ModerationStatus = "flagged"
	ModerationApproved ModerationStatus = "approved"
	ModerationRemoved  ModerationStatus = "removed"
)

// Conversation ties a client and a consultant together around one job.
type Conversation struct {
	ID           int64     `json:"id" db:"id"`
	JobID        int64     `json:"job_id" db:"job_id"`
	ClientID     int64     `json:"client_id" db:"client_id"`
	ConsultantID int64     `json:"consultant_id" db:"consultant_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Message struct {
	ID             int64 `json:"id" db:"id"`
	ConversationID int64 `json:"conversation_id" db:"conversation_id"`
	SenderID       int64 `json:"sender_id" db:"sender_id"`

	Body string `json:"body" db:"body"`

	// Moderation
	Moderation   ModerationStatus `json:"moderation" db:"moderation"`
	FlagReason   sql.NullString   `json:"flag_reason,omitempty" db:"flag_reason"`
	FlaggedBy    sql.NullInt64    `json:"flagged_by,omitempty" db:"flagged_by"`
	ModeratedBy  sql.NullInt64    `json:"moderated_by,omitempty" db:"moderated_by"`
	ModeratedAt  sql.NullTime     `json:"moderated_at,omitempty" db:"moderated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
