package model

import "time"

// Movie is a catalog entry sessions are scheduled against.  The booking
// core only reads movies to validate references; catalog management
// lives in admin tooling.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	DurationMin uint32    `json:"duration_min"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
