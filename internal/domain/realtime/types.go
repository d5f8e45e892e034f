// internal/domain/realtime/types.go
package realtime

import "time"

type EventType string

const (
	EventBidSubmitted   EventType = "bid.submitted"
	EventBidAccepted    EventType = "bid.accepted"
	EventMessageFlagged EventType = "message.flagged"
	EventInvoicePaid    EventType = "invoice.paid"
)

// Event is pushed to connected admin dashboards over the websocket feed.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}
