package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/booking"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
	publisher "github.com/iliyamo/venue-booking/internal/service/queue_publisher"
)

// TicketHandler implements seat reservation and the ticket lifecycle.
// Reservation is the hot path: the session row lock plus TicketRepo's
// locked availability read close the race where two clients both see a
// seat as free and both insert.
type TicketHandler struct {
	tickets  *repository.TicketRepo
	sessions *repository.SessionRepo
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(tickets *repository.TicketRepo, sessions *repository.SessionRepo) *TicketHandler {
	return &TicketHandler{tickets: tickets, sessions: sessions}
}

type reserveRequest struct {
	SeatNumber string `json:"seat_number"`
}

// Reserve creates a RESERVED ticket for one seat of a session.  The
// check and the insert run in a single transaction; losing the race for
// a seat or for the last capacity slot returns 409.
func (h *TicketHandler) Reserve(c echo.Context) error {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req reserveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validSeat(req.SeatNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat number"})
	}
	userID := currentUserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx := c.Request().Context()
	tx, err := h.tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the session row first: capacity counting for this session is
	// serialized here while other sessions proceed concurrently.
	s, err := h.sessions.GetByIDTx(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if s.Status == model.SessionCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "session is cancelled"})
	}

	t := model.Ticket{
		SessionID:  sessionID,
		UserID:     userID,
		SeatNumber: req.SeatNumber,
		PriceCents: s.PriceCents,
	}
	if err := h.tickets.ReserveTx(ctx, tx, &t, s.Capacity); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
		case errors.Is(err, repository.ErrCapacityExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "session sold out"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	committed = true

	publishTicketEvent(&t, s)
	return c.JSON(http.StatusCreated, t)
}

// publishTicketEvent emits a booking.confirmed event for a new ticket.
// The reservation is already committed, so failures are logged and
// dropped.
func publishTicketEvent(t *model.Ticket, s *model.Session) {
	ev := queue.BookingConfirmedEvent{
		Kind:        queue.KindTicket,
		RecordID:    t.ID,
		UserID:      t.UserID,
		ResourceID:  t.SessionID,
		Slot:        fmt.Sprintf("%s %s hall %s seat %s", s.SessionDate, s.StartTime, s.Hall, t.SeatNumber),
		Status:      t.Status,
		AmountCents: t.PriceCents,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("ticket %d: event publish failed: %v", t.ID, err)
	}
}

// Pay moves a RESERVED ticket to PAID.  Only the owner may pay.
func (h *TicketHandler) Pay(c echo.Context) error {
	return h.transition(c, model.TicketPaid, true)
}

// Use marks a PAID ticket as USED at the door.  Admin only; routing
// enforces the role.
func (h *TicketHandler) Use(c echo.Context) error {
	return h.transition(c, model.TicketUsed, false)
}

// Cancel cancels a RESERVED or PAID ticket, releasing the seat for
// others.  Only the owner may cancel.
func (h *TicketHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.TicketCancelled, true)
}

// transition applies one lifecycle step to a ticket.  The row is locked
// for the duration so concurrent transitions on the same ticket
// serialize; illegal moves (including any move out of a terminal state)
// return 409.
func (h *TicketHandler) transition(c echo.Context, to string, ownerOnly bool) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx := c.Request().Context()
	tx, err := h.tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := h.tickets.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if ownerOnly && t.UserID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
	}
	if !booking.CanTransitionTicket(t.Status, to) {
		return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("cannot move ticket from %s to %s", t.Status, to)})
	}
	if err := h.tickets.UpdateStatusTx(ctx, tx, t, to); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	committed = true
	return c.JSON(http.StatusOK, t)
}

// ListMine returns the authenticated user's tickets, newest first.
func (h *TicketHandler) ListMine(c echo.Context) error {
	userID := currentUserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	tickets, err := h.tickets.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}
