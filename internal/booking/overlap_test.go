package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/venue-booking/internal/model"
)

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"identical ranges", "21:00", "23:00", "21:00", "23:00", true},
		{"partial overlap", "21:00", "23:00", "22:00", "24:00", true},
		{"a within b", "21:30", "22:00", "21:00", "23:00", true},
		{"b within a", "21:00", "23:00", "21:30", "22:00", true},
		{"disjoint", "18:00", "20:00", "21:00", "23:00", false},
		{"touching at boundary is free", "21:00", "23:00", "23:00", "24:00", false},
		{"touching the other way", "23:00", "24:00", "21:00", "23:00", false},
		{"one minute of overlap", "21:00", "23:00", "22:59", "24:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RangesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, RangesOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestTicketHoldingStates(t *testing.T) {
	assert.True(t, TicketHolds(model.TicketReserved))
	assert.True(t, TicketHolds(model.TicketPaid))
	assert.False(t, TicketHolds(model.TicketCancelled))
	assert.False(t, TicketHolds(model.TicketUsed))

	// Cancelled or used tickets never conflict with a new reservation.
	assert.True(t, SeatConflict(model.TicketReserved, model.TicketReserved))
	assert.True(t, SeatConflict(model.TicketPaid, model.TicketReserved))
	assert.False(t, SeatConflict(model.TicketCancelled, model.TicketReserved))
	assert.False(t, SeatConflict(model.TicketUsed, model.TicketReserved))
}

func TestBookingConflict(t *testing.T) {
	held := model.TableBooking{TableID: 3, StartTime: "21:00", EndTime: "23:00", Status: model.BookingReserved}

	// Overlap at 22:00-23:00.
	assert.True(t, BookingConflict(held, "22:00", "24:00"))
	// Half-open boundary: a booking starting exactly when another ends is free.
	assert.False(t, BookingConflict(held, "23:00", "24:00"))
	// A cancelled booking releases its slot.
	held.Status = model.BookingCancelled
	assert.True(t, RangesOverlap(held.StartTime, held.EndTime, "22:00", "24:00"))
	assert.False(t, BookingConflict(held, "22:00", "24:00"))
}

func TestFreeTables(t *testing.T) {
	tables := []model.VenueTable{
		{ID: 1, Name: "T1"},
		{ID: 2, Name: "T2"},
		{ID: 3, Name: "T3"},
	}
	bookings := []model.TableBooking{
		{TableID: 1, StartTime: "20:00", EndTime: "22:00", Status: model.BookingConfirmed},
		{TableID: 2, StartTime: "20:00", EndTime: "22:00", Status: model.BookingCancelled},
		{TableID: 3, StartTime: "22:00", EndTime: "24:00", Status: model.BookingReserved},
	}

	free := FreeTables(tables, bookings, "21:00", "22:00")
	ids := make([]uint64, 0, len(free))
	for _, tb := range free {
		ids = append(ids, tb.ID)
	}
	// Table 1 is blocked by a confirmed booking; table 2's booking is
	// cancelled; table 3's booking starts exactly at the requested end.
	assert.Equal(t, []uint64{2, 3}, ids)
}
