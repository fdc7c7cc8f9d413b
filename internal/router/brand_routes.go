package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/handler"
	"github.com/adora-ads/adora-api/internal/middleware"
	"github.com/adora-ads/adora-api/internal/model"
)

// RegisterBrand registers brand-company endpoints. Brands book spaces, list
// their bookings and mark confirmed bookings paid.
func RegisterBrand(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBrandCompany),
	)
	g.POST("/bookings", b.CreateBooking)
	g.GET("/my/bookings", b.MyBookings)
	g.PATCH("/bookings/:id/pay", b.PayBooking)
}

// RegisterAdmin registers the admin dashboard endpoints.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/stats", a.Stats)
	g.GET("/profiles", a.Profiles)
	g.GET("/spaces", a.Spaces)
	g.GET("/bookings", a.Bookings)
	g.PATCH("/profiles/:id/verification", a.SetVerification)
}
