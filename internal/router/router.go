package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/handler"
	"github.com/adora-ads/adora-api/internal/middleware"
	"github.com/adora-ads/adora-api/internal/model"
)

// RegisterRoutes registers non-authenticated infrastructure routes. db may
// be nil, in which case the health check does not ping the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the authentication routes. Unauthenticated token
// operations live under /v1/auth; the current-user endpoints under /v1
// require a valid access token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)               // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess) // keeps the refresh token
	// Logout needs no access token: a refresh token in the body is enough.
	g.POST("/logout", a.Logout)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuildingOwner, model.RoleVehicleOwner, model.RoleBrandCompany, model.RoleAdmin),
	)
	auth.GET("/me", a.Me)
	auth.PATCH("/me/profile", a.UpdateProfile)
}

// RegisterPublic registers the guest search endpoints. cache and limit are
// optional middlewares (nil skips them).
func RegisterPublic(e *echo.Echo, s *handler.SpaceHandler, cache, limit echo.MiddlewareFunc) {
	var mws []echo.MiddlewareFunc
	if limit != nil {
		mws = append(mws, limit)
	}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/spaces", s.Search, mws...)
	e.GET("/v1/spaces/search", s.SearchEnhanced, mws...)
	e.GET("/v1/spaces/:id", s.GetSpace, mws...)
}
