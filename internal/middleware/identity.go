package middleware

// identity.go defines helpers shared across middleware and handlers for
// reading the authenticated user that JWTAuth stored in the Echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/model"
)

// CurrentUser returns the user id and role of the caller. ok is false for
// guests.
func CurrentUser(c echo.Context) (userID string, role model.Role, ok bool) {
	id, _ := c.Get(KeyUserID).(string)
	r, _ := c.Get(KeyRole).(string)
	if id == "" {
		return "", "", false
	}
	return id, model.Role(r), true
}

// userID returns the caller's id or "guest". It keys per-user rate limits.
func userID(c echo.Context) string {
	if id, _, ok := CurrentUser(c); ok {
		return id
	}
	return "guest"
}
