package model

import "time"

// Ticket statuses.  RESERVED and PAID are holding states: they occupy the
// seat and block competing reservations.  CANCELLED and USED are terminal.
const (
	TicketReserved  = "RESERVED"
	TicketPaid      = "PAID"
	TicketCancelled = "CANCELLED"
	TicketUsed      = "USED"
)

// Ticket is a seat reservation for one session.  At most one ticket in a
// holding state may exist per (session, seat_number); the tickets table
// enforces this with a unique key over a generated "holding" column so
// that cancelled and used tickets release the seat automatically.
type Ticket struct {
	ID         uint64    `json:"id"`
	SessionID  uint64    `json:"session_id"`
	UserID     uint64    `json:"user_id"`
	SeatNumber string    `json:"seat_number"`
	PriceCents uint32    `json:"price_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
