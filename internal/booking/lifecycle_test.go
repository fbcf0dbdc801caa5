package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/venue-booking/internal/model"
)

func TestTicketTransitions(t *testing.T) {
	assert.True(t, CanTransitionTicket(model.TicketReserved, model.TicketPaid))
	assert.True(t, CanTransitionTicket(model.TicketReserved, model.TicketCancelled))
	assert.True(t, CanTransitionTicket(model.TicketPaid, model.TicketUsed))
	assert.True(t, CanTransitionTicket(model.TicketPaid, model.TicketCancelled))

	// No skipping straight to USED and no un-paying.
	assert.False(t, CanTransitionTicket(model.TicketReserved, model.TicketUsed))
	assert.False(t, CanTransitionTicket(model.TicketPaid, model.TicketReserved))
}

func TestTicketTerminalStates(t *testing.T) {
	for _, terminal := range []string{model.TicketCancelled, model.TicketUsed} {
		assert.True(t, TicketTerminal(terminal))
		for _, to := range []string{model.TicketReserved, model.TicketPaid, model.TicketCancelled, model.TicketUsed} {
			assert.False(t, CanTransitionTicket(terminal, to), "%s -> %s must be rejected", terminal, to)
		}
	}
	// Paying a cancelled ticket is the canonical invalid transition.
	assert.False(t, CanTransitionTicket(model.TicketCancelled, model.TicketPaid))
}

func TestBookingTransitions(t *testing.T) {
	assert.True(t, CanTransitionBooking(model.BookingReserved, model.BookingConfirmed))
	assert.True(t, CanTransitionBooking(model.BookingReserved, model.BookingCancelled))
	assert.True(t, CanTransitionBooking(model.BookingConfirmed, model.BookingCancelled))

	assert.False(t, CanTransitionBooking(model.BookingCancelled, model.BookingReserved))
	assert.False(t, CanTransitionBooking(model.BookingCancelled, model.BookingConfirmed))
	assert.True(t, BookingTerminal(model.BookingCancelled))
	assert.False(t, BookingTerminal(model.BookingReserved))
}
