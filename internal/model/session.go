package model

import "time"

// Session statuses.  A session is SCHEDULED when created and may be
// CANCELLED by an admin; cancelled sessions stop accepting tickets.
const (
	SessionScheduled = "SCHEDULED"
	SessionCancelled = "CANCELLED"
)

// Session represents a single scheduled screening of a movie in a hall.
// A session owns up to Capacity tickets.  SessionDate and StartTime are
// stored separately ("2006-01-02" and "15:04") so that recurring
// templates can address the time-of-day slot independently of the date.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  Hall       – hall identifier (free-form label, e.g. "MAIN" or "2").
//  SessionDate – calendar date of the screening.
//  StartTime  – time of day the screening starts.
//  PriceCents – ticket price in cents for this session.
//  Capacity   – maximum number of holding tickets.
//  Status     – SCHEDULED or CANCELLED.
type Session struct {
	ID          uint64    `json:"id"`
	MovieID     uint64    `json:"movie_id"`
	Hall        string    `json:"hall"`
	SessionDate string    `json:"session_date"`
	StartTime   string    `json:"start_time"`
	PriceCents  uint32    `json:"price_cents"`
	Capacity    uint32    `json:"capacity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
