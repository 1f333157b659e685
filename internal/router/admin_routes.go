package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/handler"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/middleware"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/dashboard", a.Dashboard)
	g.GET("/analytics", a.AnalyticsSummary)

	// ---- Flights ----
	g.GET("/flights", a.ListFlights)
	g.POST("/flights", a.CreateFlight)
	g.PUT("/flights/:id", a.UpdateFlight)
	g.POST("/flights/:id/toggle", a.ToggleFlight)

	// ---- Templates ----
	g.GET("/templates", a.ListTemplates)
	g.POST("/templates", a.CreateTemplate)
	g.GET("/templates/:id/prices", a.GetPrices)
	g.PUT("/templates/:id/prices", a.UpsertPrices)

	// ---- Discounts ----
	g.GET("/discounts", a.ListDiscounts)
	g.POST("/discounts", a.ApplyDiscount)
	g.DELETE("/discounts/:id", a.DeleteDiscount)

	// ---- Users ----
	g.GET("/users", a.ListUsers)
	g.GET("/users/:id", a.GetUser)
	g.POST("/users/:id/toggle-role", a.ToggleRole)

	g.GET("/aircraft", a.Aircraft)
}
