package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/service/scheduler"
)

// TemplateHandler manages recurring session templates and their
// expansion into concrete sessions.  All routes are admin-only.
type TemplateHandler struct {
	templates *repository.SessionTemplateRepo
	movies    *repository.MovieRepo
	expander  *scheduler.Expander
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(templates *repository.SessionTemplateRepo, movies *repository.MovieRepo, expander *scheduler.Expander) *TemplateHandler {
	return &TemplateHandler{templates: templates, movies: movies, expander: expander}
}

type createTemplateRequest struct {
	Name              string   `json:"name"`
	DefaultHall       string   `json:"default_hall"`
	DefaultPriceCents uint32   `json:"default_price_cents"`
	DefaultCapacity   uint32   `json:"default_capacity"`
	TimeSlots         []string `json:"time_slots"`
	DaysOfWeek        []int    `json:"days_of_week"`
}

// Create stores a new template.  Time slots must be well-formed times of
// day and weekdays use ISO numbering, Monday=1 through Sunday=7.
func (h *TemplateHandler) Create(c echo.Context) error {
	var req createTemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.DefaultHall == "" || req.DefaultPriceCents == 0 || req.DefaultCapacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, default_hall, default_price_cents and default_capacity are required"})
	}
	for _, slot := range req.TimeSlots {
		if !validTime(slot) || slot == "24:00" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "time_slots entries must be HH:MM"})
		}
	}
	for _, d := range req.DaysOfWeek {
		if d < 1 || d > 7 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days_of_week entries must be 1 (Monday) through 7 (Sunday)"})
		}
	}
	t := model.SessionTemplate{
		Name:              req.Name,
		DefaultHall:       req.DefaultHall,
		DefaultPriceCents: req.DefaultPriceCents,
		DefaultCapacity:   req.DefaultCapacity,
		TimeSlots:         req.TimeSlots,
		DaysOfWeek:        req.DaysOfWeek,
	}
	if err := h.templates.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns every template, active or not.
func (h *TemplateHandler) List(c echo.Context) error {
	templates, err := h.templates.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": templates})
}

type applyTemplateRequest struct {
	MovieID   uint64 `json:"movie_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Apply expands a template over an inclusive date range for one movie.
// Expansion is best-effort: occupied slots are reported in the result's
// skipped list and never abort the batch.  A template with no time slots
// cannot be applied and returns 422.
func (h *TemplateHandler) Apply(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	var req applyTemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id is required"})
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date and end_date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	tpl, err := h.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !tpl.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "template is inactive"})
	}
	if _, err := h.movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	res, err := h.expander.Expand(ctx, tpl, req.MovieID, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyTemplate):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "template has no time slots"})
		case errors.Is(err, scheduler.ErrInvalidRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not be before start_date"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range"})
	}
	return c.JSON(http.StatusOK, res)
}
