// Package router wires handlers, authentication and the optional Redis
// middleware into the Echo route table.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/middleware"
	"github.com/iliyamo/venue-booking/internal/model"
)

// Deps carries everything route registration needs.  Cache and RateLimit
// are pass-through middleware when Redis is unavailable, so registration
// never branches on their presence.
type Deps struct {
	Auth      *handler.AuthHandler
	Sessions  *handler.SessionHandler
	Tickets   *handler.TicketHandler
	Bookings  *handler.TableBookingHandler
	Templates *handler.TemplateHandler
	Catalog   *handler.CatalogHandler
	JWTSecret string
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register sets up the full route table.
//
// Public reads carry the response cache; every booking write requires a
// JWT, and the reservation endpoints additionally pass the rate
// limiter.  Admin-only operations live in their own group behind
// RequireRole(ADMIN).
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated: account creation and login.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)

	// Public browse endpoints.  Guests can inspect the schedule, seat
	// maps and table availability before registering.
	public := e.Group("/v1", d.Cache)
	public.GET("/movies", d.Catalog.ListMovies)
	public.GET("/tables", d.Catalog.ListTables)
	public.GET("/tables/available", d.Bookings.Available)
	public.GET("/sessions", d.Sessions.ListByDate)
	public.GET("/sessions/:id", d.Sessions.Get)
	public.GET("/sessions/:id/seats", d.Sessions.Seats)

	// Authenticated endpoints: any valid role may reserve and manage
	// its own tickets and bookings.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(d.JWTSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))

	auth.POST("/sessions/:id/tickets", d.Tickets.Reserve, d.RateLimit)
	auth.POST("/tickets/:id/pay", d.Tickets.Pay)
	auth.DELETE("/tickets/:id", d.Tickets.Cancel)
	auth.GET("/tickets/mine", d.Tickets.ListMine)

	auth.POST("/tables/:id/bookings", d.Bookings.Book, d.RateLimit)
	auth.POST("/table-bookings/:id/confirm", d.Bookings.Confirm)
	auth.DELETE("/table-bookings/:id", d.Bookings.Cancel)
	auth.GET("/table-bookings/mine", d.Bookings.ListMine)

	// Admin-only: catalog writes, schedule management, templates and
	// marking tickets used at the door.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(d.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/movies", d.Catalog.CreateMovie)
	admin.POST("/tables", d.Catalog.CreateTable)
	admin.POST("/sessions", d.Sessions.Create)
	admin.PATCH("/sessions/:id", d.Sessions.Update)
	admin.POST("/tickets/:id/use", d.Tickets.Use)
	admin.POST("/templates", d.Templates.Create)
	admin.GET("/templates", d.Templates.List)
	admin.POST("/templates/:id/apply", d.Templates.Apply)
}
