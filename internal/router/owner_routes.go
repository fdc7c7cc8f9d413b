package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/handler"
	"github.com/adora-ads/adora-api/internal/middleware"
)

// RegisterOwner registers endpoints for building and vehicle owners: their
// listings and the bookings placed on them.
func RegisterOwner(e *echo.Echo, s *handler.SpaceHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.Owners...),
	)

	// ---- Spaces ----
	g.POST("/spaces", s.CreateSpace)
	g.PUT("/spaces/:id", s.UpdateSpace)
	g.PATCH("/spaces/:id", s.UpdateSpace) // alias for clients that use PATCH
	g.GET("/my/spaces", s.MySpaces)

	// ---- Bookings on own spaces ----
	g.GET("/owner/bookings", b.OwnerBookings)
	g.PATCH("/bookings/:id/confirm", b.ConfirmBooking)
	g.PATCH("/bookings/:id/cancel", b.CancelBooking)
}
