// Package booking contains the pure decision logic of the reservation
// core: interval overlap tests, holding-state predicates and the status
// transition rules shared by seat tickets and table bookings.  Nothing in
// this package performs I/O; repositories and handlers call into it at
// decision time with the rows they have already loaded.
package booking

import "github.com/iliyamo/venue-booking/internal/model"

// RangesOverlap reports whether the half-open intervals [aStart, aEnd)
// and [bStart, bEnd) share at least one instant.  Times are zero-padded
// "15:04" strings on the same calendar day, so lexicographic order equals
// temporal order and "24:00" sorts after every real time of day.  The
// single expression subsumes the containment cases (a within b, b within
// a) as well as partial overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// TicketHolds reports whether a ticket status occupies its seat.  Only
// RESERVED and PAID tickets block competing reservations; CANCELLED and
// USED tickets never conflict.
func TicketHolds(status string) bool {
	return status == model.TicketReserved || status == model.TicketPaid
}

// BookingHolds reports whether a table booking status occupies its slot.
func BookingHolds(status string) bool {
	return status == model.BookingReserved || status == model.BookingConfirmed
}

// SeatConflict reports whether an existing ticket and a candidate ticket
// for the same (session, seat) key conflict.  Both must be in a holding
// state for a conflict to exist.
func SeatConflict(existingStatus, candidateStatus string) bool {
	return TicketHolds(existingStatus) && TicketHolds(candidateStatus)
}

// BookingConflict reports whether an existing booking blocks a candidate
// range [start, end) on the same table and date.  Non-holding bookings
// never conflict regardless of their range.
func BookingConflict(existing model.TableBooking, start, end string) bool {
	if !BookingHolds(existing.Status) {
		return false
	}
	return RangesOverlap(existing.StartTime, existing.EndTime, start, end)
}

// FreeTables filters tables down to those with no holding booking that
// overlaps [start, end) on the date the bookings were loaded for.  The
// caller supplies all holding bookings for that date; bookings for
// tables absent from the input list are ignored.
func FreeTables(tables []model.VenueTable, bookings []model.TableBooking, start, end string) []model.VenueTable {
	blocked := make(map[uint64]bool)
	for _, b := range bookings {
		if BookingConflict(b, start, end) {
			blocked[b.TableID] = true
		}
	}
	free := make([]model.VenueTable, 0, len(tables))
	for _, t := range tables {
		if !blocked[t.ID] {
			free = append(free, t)
		}
	}
	return free
}
