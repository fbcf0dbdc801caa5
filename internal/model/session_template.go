package model

import "time"

// SessionTemplate is a recurring schedule pattern owned by admin tooling.
// TimeSlots are "15:04" times of day; DaysOfWeek use ISO numbering with
// Monday=1 and Sunday=7.  Templates are pure configuration: expanding one
// produces concrete Session rows but never mutates the template.
type SessionTemplate struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	DefaultHall       string    `json:"default_hall"`
	DefaultPriceCents uint32    `json:"default_price_cents"`
	DefaultCapacity   uint32    `json:"default_capacity"`
	TimeSlots         []string  `json:"time_slots"`
	DaysOfWeek        []int     `json:"days_of_week"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
