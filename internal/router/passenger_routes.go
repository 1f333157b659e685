package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/handler"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/middleware"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

// PassengerHandlers bundles the handlers mounted for the passenger role.
type PassengerHandlers struct {
	Locations    *handler.LocationHandler
	Search       *handler.SearchHandler
	Bookings     *handler.BookingHandler
	Reservations *handler.ReservationHandler
}

// RegisterPassenger registers passenger-scoped endpoints under /v1.  All
// routes require a valid JWT and the passenger role.  searchMW wraps only
// the flight search (response cache and rate limiter); nil entries are
// skipped.
func RegisterPassenger(e *echo.Echo, h PassengerHandlers, jwtSecret string, searchMW ...echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger),
	)

	g.GET("/dashboard", h.Reservations.Dashboard)

	// ---- Locations ----
	g.GET("/locations/countries", h.Locations.Countries)
	g.GET("/locations/cities", h.Locations.Cities)
	g.GET("/locations/airports", h.Locations.Airports)
	g.GET("/airlines", h.Locations.Airlines)

	// ---- Search ----
	var mw []echo.MiddlewareFunc
	for _, m := range searchMW {
		if m != nil {
			mw = append(mw, m)
		}
	}
	g.GET("/flights/search", h.Search.Search, mw...)

	// ---- Booking workflow ----
	g.POST("/bookings", h.Bookings.Create)
	g.GET("/bookings/:id", h.Bookings.Get)
	g.PUT("/bookings/:id/flight", h.Bookings.SelectFlight) // back to flight selection
	g.PUT("/bookings/:id/passengers", h.Bookings.Passengers)
	g.GET("/bookings/:id/seats", h.Bookings.SeatMap)
	g.PUT("/bookings/:id/seats", h.Bookings.ChooseSeats)
	g.POST("/bookings/:id/payment", h.Bookings.Pay)
	g.DELETE("/bookings/:id", h.Bookings.Cancel)

	// ---- Reservations ----
	g.GET("/reservations", h.Reservations.List)
	g.GET("/reservations/:id", h.Reservations.Get)
	g.POST("/reservations/:id/refund", h.Reservations.Refund)
	g.GET("/reservations/:id/ticket", h.Reservations.Ticket)
	g.GET("/reservations/:id/invoice", h.Reservations.Invoice)
}
