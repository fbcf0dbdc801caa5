package model

import "time"

// Table booking statuses.  Lower-case by convention for the club side of
// the venue.  "reserved" and "confirmed" are holding states; "cancelled"
// is terminal.
const (
	BookingReserved  = "reserved"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// TableBooking reserves a club table for a time range on a single date.
// Unlike tickets the conflicting dimension is a continuous interval:
// two holding bookings for the same table and date must not have
// overlapping [StartTime, EndTime) ranges.  StartTime and EndTime are
// "15:04" strings; an EndTime of "24:00" means end of day.
type TableBooking struct {
	ID              uint64    `json:"id"`
	TableID         uint64    `json:"table_id"`
	UserID          uint64    `json:"user_id"`
	BookingDate     string    `json:"booking_date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	TotalPriceCents uint32    `json:"total_price_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
