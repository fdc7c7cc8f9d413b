package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/repository"
	"github.com/adora-ads/adora-api/internal/stats"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	Catalog  repository.Catalog
	Snapshot *stats.Store // optional; nil computes on every request
}

func NewAdminHandler(catalog repository.Catalog, snap *stats.Store) *AdminHandler {
	return &AdminHandler{Catalog: catalog, Snapshot: snap}
}

// Stats handles GET /v1/admin/stats. A stored snapshot is served when one
// exists; otherwise the figures are computed from the tables and stored
// unless a write invalidated them meanwhile.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	if snap, err := h.Snapshot.Get(ctx); err == nil {
		c.Response().Header().Set("X-Stats-Source", "snapshot")
		return c.JSON(http.StatusOK, snap)
	} else if !errors.Is(err, stats.ErrNoSnapshot) {
		c.Logger().Warnf("stats snapshot read: %v", err)
	}

	gen, genErr := h.Snapshot.Generation(ctx)
	if genErr != nil {
		c.Logger().Warnf("stats generation read: %v", genErr)
	}
	sum, err := stats.Load(ctx, h.Catalog)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute stats"})
	}
	snap := stats.Snapshot{Summary: sum, ComputedAt: time.Now().UTC()}
	// figures loaded across an invalidation are served but not stored
	if genErr == nil {
		if err := h.Snapshot.Save(ctx, gen, snap); err != nil && !errors.Is(err, stats.ErrStaleSnapshot) {
			c.Logger().Warnf("stats snapshot save: %v", err)
		}
	}
	c.Response().Header().Set("X-Stats-Source", "live")
	return c.JSON(http.StatusOK, snap)
}

// Profiles handles GET /v1/admin/profiles.
func (h *AdminHandler) Profiles(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	items, err := h.Catalog.Profiles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profiles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}

// Spaces handles GET /v1/admin/spaces.
func (h *AdminHandler) Spaces(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	items, err := h.Catalog.Spaces(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load spaces"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}

// Bookings handles GET /v1/admin/bookings.
func (h *AdminHandler) Bookings(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	items, err := h.Catalog.Bookings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}

// SetVerification handles PATCH /v1/admin/profiles/:id/verification.
func (h *AdminHandler) SetVerification(c echo.Context) error {
	var body struct {
		Status string `json:"verification_status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidVerification(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "verification_status must be pending, verified or rejected"})
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Catalog.ProfileRepo.SetVerification(ctx, c.Param("id"), status); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "verification_status": status})
}
