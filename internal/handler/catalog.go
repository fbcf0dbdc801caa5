package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// CatalogHandler manages the entities sessions and bookings are created
// against: movies and club tables.  Writes are admin-only; reads are
// public so guests can browse before registering.
type CatalogHandler struct {
	movies *repository.MovieRepo
	tables *repository.VenueTableRepo
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(movies *repository.MovieRepo, tables *repository.VenueTableRepo) *CatalogHandler {
	return &CatalogHandler{movies: movies, tables: tables}
}

type createMovieRequest struct {
	Title       string `json:"title"`
	DurationMin uint32 `json:"duration_min"`
}

// CreateMovie adds a movie to the catalog.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
	var req createMovieRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and duration_min are required"})
	}
	m := model.Movie{Title: req.Title, DurationMin: req.DurationMin}
	if err := h.movies.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMovies returns all active movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

type createTableRequest struct {
	Name  string `json:"name"`
	Zone  string `json:"zone"`
	Seats uint32 `json:"seats"`
}

// CreateTable adds a bookable club table.
func (h *CatalogHandler) CreateTable(c echo.Context) error {
	var req createTableRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and seats are required"})
	}
	t := model.VenueTable{Name: req.Name, Zone: req.Zone, Seats: req.Seats}
	if err := h.tables.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTables returns all active tables.
func (h *CatalogHandler) ListTables(c echo.Context) error {
	tables, err := h.tables.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}
