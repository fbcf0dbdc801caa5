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

// TableBookingHandler implements club table bookings: interval-based
// reservation, the confirm/cancel lifecycle and the availability read.
type TableBookingHandler struct {
	bookings *repository.TableBookingRepo
	tables   *repository.VenueTableRepo
}

// NewTableBookingHandler constructs a TableBookingHandler.
func NewTableBookingHandler(bookings *repository.TableBookingRepo, tables *repository.VenueTableRepo) *TableBookingHandler {
	return &TableBookingHandler{bookings: bookings, tables: tables}
}

type bookTableRequest struct {
	BookingDate     string `json:"booking_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	TotalPriceCents uint32 `json:"total_price_cents"`
}

// Book reserves a table for [start_time, end_time) on one date.  An end
// time of "00:00" is treated as midnight and normalized to "24:00" so a
// late range still conflicts with earlier evening bookings.  Other end
// times before the start are not reinterpreted as overnight ranges; the
// same-day overlap formula applies as written.  Overlap with any holding
// booking returns 409.
func (h *TableBookingHandler) Book(c echo.Context) error {
	tableID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req bookTableRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validDate(req.BookingDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be YYYY-MM-DD"})
	}
	if !validTime(req.StartTime) || req.StartTime == "24:00" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
	}
	if !validTime(req.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be HH:MM"})
	}
	end := normalizeEndTime(req.EndTime)
	if req.StartTime == end {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must differ from start_time"})
	}
	userID := currentUserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx := c.Request().Context()
	tbl, err := h.tables.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !tbl.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "table is not bookable"})
	}

	b := model.TableBooking{
		TableID:         tableID,
		UserID:          userID,
		BookingDate:     req.BookingDate,
		StartTime:       req.StartTime,
		EndTime:         end,
		TotalPriceCents: req.TotalPriceCents,
	}
	if err := h.bookings.Book(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table already booked for this time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	publishBookingEvent(&b, tbl)
	return c.JSON(http.StatusCreated, b)
}

// publishBookingEvent emits a booking.confirmed event for a new table
// booking.  Failures are logged and dropped; the booking is already
// committed.
func publishBookingEvent(b *model.TableBooking, tbl *model.VenueTable) {
	ev := queue.BookingConfirmedEvent{
		Kind:        queue.KindTable,
		RecordID:    b.ID,
		UserID:      b.UserID,
		ResourceID:  b.TableID,
		Slot:        fmt.Sprintf("%s %s-%s table %s", b.BookingDate, b.StartTime, b.EndTime, tbl.Name),
		Status:      b.Status,
		AmountCents: b.TotalPriceCents,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("table booking %d: event publish failed: %v", b.ID, err)
	}
}

// Confirm moves a reserved booking to confirmed.  Only the owner may
// confirm.
func (h *TableBookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, model.BookingConfirmed)
}

// Cancel cancels a reserved or confirmed booking, freeing the time range
// for others.  Only the owner may cancel.
func (h *TableBookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.BookingCancelled)
}

func (h *TableBookingHandler) transition(c echo.Context, to string) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	tx, err := h.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.bookings.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if b.UserID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	if !booking.CanTransitionBooking(b.Status, to) {
		return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("cannot move booking from %s to %s", b.Status, to)})
	}
	if err := h.bookings.UpdateStatusTx(ctx, tx, b, to); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	committed = true
	return c.JSON(http.StatusOK, b)
}

// Available lists the active tables with no holding booking overlapping
// [start, end) on the given date.  Availability is always derived at
// read time.
func (h *TableBookingHandler) Available(c echo.Context) error {
	date := c.QueryParam("date")
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query must be YYYY-MM-DD"})
	}
	if !validTime(start) || start == "24:00" || !validTime(end) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end must be HH:MM"})
	}
	end = normalizeEndTime(end)
	if start == end {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must differ from start"})
	}
	ctx := c.Request().Context()
	tables, err := h.tables.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	holding, err := h.bookings.ListHoldingByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	free := booking.FreeTables(tables, holding, start, end)
	return c.JSON(http.StatusOK, echo.Map{"date": date, "start": start, "end": end, "tables": free})
}

// ListMine returns the authenticated user's bookings, newest first.
func (h *TableBookingHandler) ListMine(c echo.Context) error {
	userID := currentUserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	bookings, err := h.bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
