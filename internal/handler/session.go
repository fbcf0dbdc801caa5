package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// SessionHandler manages scheduled sessions: admin creation and updates
// plus the public browse reads.
type SessionHandler struct {
	sessions *repository.SessionRepo
	movies   *repository.MovieRepo
	tickets  *repository.TicketRepo
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *repository.SessionRepo, movies *repository.MovieRepo, tickets *repository.TicketRepo) *SessionHandler {
	return &SessionHandler{sessions: sessions, movies: movies, tickets: tickets}
}

type createSessionRequest struct {
	MovieID     uint64 `json:"movie_id"`
	Hall        string `json:"hall"`
	SessionDate string `json:"session_date"`
	StartTime   string `json:"start_time"`
	PriceCents  uint32 `json:"price_cents"`
	Capacity    uint32 `json:"capacity"`
}

// Create schedules a single session.  The (hall, date, start_time) slot
// must be free; a duplicate returns 409.
func (h *SessionHandler) Create(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.Hall == "" || req.PriceCents == 0 || req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, hall, price_cents and capacity are required"})
	}
	if !validDate(req.SessionDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_date must be YYYY-MM-DD"})
	}
	if !validTime(req.StartTime) || req.StartTime == "24:00" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
	}
	ctx := c.Request().Context()
	if _, err := h.movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	s := model.Session{
		MovieID:     req.MovieID,
		Hall:        req.Hall,
		SessionDate: req.SessionDate,
		StartTime:   req.StartTime,
		PriceCents:  req.PriceCents,
		Capacity:    req.Capacity,
	}
	if err := h.sessions.CreateScheduled(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot already scheduled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, s)
}

type updateSessionRequest struct {
	Hall       *string `json:"hall"`
	PriceCents *uint32 `json:"price_cents"`
	Capacity   *uint32 `json:"capacity"`
	Status     *string `json:"status"`
}

// Update changes a session's metadata.  Date and time are immutable;
// capacity may never shrink below the number of holding tickets, so
// nobody's seat disappears out from under them.
func (h *SessionHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req updateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	s, err := h.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if req.Hall != nil {
		if *req.Hall == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall must not be empty"})
		}
		s.Hall = *req.Hall
	}
	if req.PriceCents != nil {
		if *req.PriceCents == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
		}
		s.PriceCents = *req.PriceCents
	}
	if req.Capacity != nil {
		if *req.Capacity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
		}
		s.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if *req.Status != model.SessionScheduled && *req.Status != model.SessionCancelled {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be SCHEDULED or CANCELLED"})
		}
		s.Status = *req.Status
	}
	if err := h.sessions.UpdateMetadata(ctx, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, repository.ErrCapacityExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "capacity below sold tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, s)
}

// Get returns one session with its derived occupancy.  Remaining
// capacity is computed from holding tickets at read time.
func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()
	s, err := h.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	holding, err := h.sessions.HoldingTicketCount(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	remaining := uint32(0)
	if s.Capacity > holding {
		remaining = s.Capacity - holding
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session":            s,
		"occupied":           holding,
		"remaining_capacity": remaining,
	})
}

// ListByDate returns all sessions for a calendar date, ordered by start
// time.
func (h *SessionHandler) ListByDate(c echo.Context) error {
	date := c.QueryParam("date")
	if !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query must be YYYY-MM-DD"})
	}
	sessions, err := h.sessions.ListByDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// Seats returns the occupied seat numbers of a session so clients can
// render a seating map.  Derived from holding tickets, never cached in a
// column.
func (h *SessionHandler) Seats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()
	if _, err := h.sessions.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	seats, err := h.tickets.OccupiedSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"session_id": id, "occupied_seats": seats})
}
