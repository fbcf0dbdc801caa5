package model

// VenueTable is an allocatable club table.  Tables are immutable once
// created; availability for a given date and time range is derived from
// holding bookings, never stored.
type VenueTable struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Zone     string `json:"zone"`
	Seats    uint32 `json:"seats"`
	IsActive bool   `json:"is_active"`
}
