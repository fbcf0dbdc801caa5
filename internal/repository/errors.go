// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a slot
// conflict maps to HTTP 409, a missing entity to 404, an ownership
// violation to 403, and so on.
package repository

import "errors"

// ErrSlotTaken is returned when a reservation request targets a seat or
// a table time range that is already occupied by a holding-state record.
// Clients recover by retrying with a different slot; the core never
// retries on their behalf.
var ErrSlotTaken = errors.New("slot taken")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another user's ticket.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState is returned when a requested status transition is not
// legal from the record's current lifecycle state, e.g. paying a
// cancelled ticket or using one that was never paid.
var ErrInvalidState = errors.New("invalid state")

// ErrCapacityExceeded is returned when creating a ticket would push the
// number of holding tickets past the session capacity, or when an admin
// tries to shrink capacity below the tickets already sold.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrEmptyTemplate is returned when a session template has no time slots
// and therefore cannot be expanded.
var ErrEmptyTemplate = errors.New("template has no time slots")
