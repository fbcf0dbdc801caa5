package booking

import "github.com/iliyamo/venue-booking/internal/model"

// ticketTransitions enumerates the legal ticket status graph:
// RESERVED -> {PAID, CANCELLED}, PAID -> {USED, CANCELLED}.  CANCELLED
// and USED have no outgoing edges.
var ticketTransitions = map[string]map[string]bool{
	model.TicketReserved: {model.TicketPaid: true, model.TicketCancelled: true},
	model.TicketPaid:     {model.TicketUsed: true, model.TicketCancelled: true},
}

// bookingTransitions is the analogous graph for table bookings:
// reserved -> {confirmed, cancelled}, confirmed -> {cancelled}.
var bookingTransitions = map[string]map[string]bool{
	model.BookingReserved:  {model.BookingConfirmed: true, model.BookingCancelled: true},
	model.BookingConfirmed: {model.BookingCancelled: true},
}

// CanTransitionTicket reports whether a ticket may move from one status
// to another.  Terminal statuses reject every transition.
func CanTransitionTicket(from, to string) bool {
	return ticketTransitions[from][to]
}

// CanTransitionBooking reports whether a table booking may move from one
// status to another.
func CanTransitionBooking(from, to string) bool {
	return bookingTransitions[from][to]
}

// TicketTerminal reports whether a ticket status has no outgoing
// transitions.
func TicketTerminal(status string) bool {
	return len(ticketTransitions[status]) == 0
}

// BookingTerminal reports whether a booking status has no outgoing
// transitions.
func BookingTerminal(status string) bool {
	return len(bookingTransitions[status]) == 0
}
