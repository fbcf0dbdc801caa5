// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published to the booking.confirmed queue.
const (
	KindTicket = "ticket"
	KindTable  = "table"
)

// BookingConfirmedEvent is published when a seat reservation or a table
// booking is successfully created.  It carries enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	Kind        string `json:"kind"`
	RecordID    uint64 `json:"record_id"`
	UserID      uint64 `json:"user_id"`
	ResourceID  uint64 `json:"resource_id"`
	Slot        string `json:"slot"`
	Status      string `json:"status"`
	AmountCents uint32 `json:"amount_cents"`
	ConfirmedAt string `json:"confirmed_at"`
}
