package handler // handler defines http handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/middleware"
	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/queue"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

// EventPublisher sends booking events to the broker.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// Invalidator drops derived data (cached responses, stats snapshots) after a
// write changes the underlying rows.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// caller returns the authenticated user set by JWTAuth.
func caller(c echo.Context) (string, model.Role, bool) {
	id, role, ok := middleware.CurrentUser(c)
	return id, role, ok
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func invalidateAll(ctx context.Context, invs []Invalidator) {
	for _, inv := range invs {
		if inv == nil {
			continue
		}
		if err := inv.Invalidate(ctx); err != nil {
			log.Printf("handler: invalidate failed: %v", err)
		}
	}
}

// trimPtr trims *s and returns nil for blank input.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
