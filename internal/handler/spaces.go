package handler

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/repository"
	"github.com/adora-ads/adora-api/internal/search"
)

// SpaceHandler serves the public space search and the owner listing
// endpoints.
type SpaceHandler struct {
	Spaces *repository.SpaceRepo
	// Invalidators run after every listing write (response cache, stats).
	Invalidators []Invalidator
}

func NewSpaceHandler(spaces *repository.SpaceRepo, invs ...Invalidator) *SpaceHandler {
	if spaces == nil {
		panic("nil repository passed to NewSpaceHandler")
	}
	return &SpaceHandler{Spaces: spaces, Invalidators: invs}
}

// Search handles GET /v1/spaces: listing columns only.
func (h *SpaceHandler) Search(c echo.Context) error { return h.search(c, false) }

// SearchEnhanced handles GET /v1/spaces/search: listings plus the owner's
// public profile under "profiles".
func (h *SpaceHandler) SearchEnhanced(c echo.Context) error { return h.search(c, true) }

func (h *SpaceHandler) search(c echo.Context, withOwner bool) error {
	f, page := search.FromValues(c.QueryParams())

	ctx, cancel := dbContext(c)
	defer cancel()

	res, err := h.Spaces.Search(ctx, repository.SpaceSearchQuery{Filters: f, Page: page, WithOwner: withOwner})
	if err != nil {
		c.Logger().Errorf("space search: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "database_error",
			"message": "failed to load spaces",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      res.Items,
		"total":     res.Total,
		"page":      page.Number,
		"page_size": page.Size,
		"empty":     res.Total == 0,
	})
}

// GetSpace handles GET /v1/spaces/:id.
func (h *SpaceHandler) GetSpace(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	s, err := h.Spaces.GetByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, repository.ErrSpaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load space"})
	}
	return c.JSON(http.StatusOK, s)
}

type spaceReq struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Location           *string  `json:"location"`
	SpaceType          *string  `json:"space_type"`
	PricePerMonth      *float64 `json:"price_per_month"`
	Dimensions         *string  `json:"dimensions"`
	Images             []string `json:"images"`
	Amenities          []string `json:"amenities"`
	AvailabilityStatus *string  `json:"availability_status"`
}

// validate checks the fields present in the body. Required fields are
// enforced by the caller.
func (r spaceReq) validate() string {
	if r.PricePerMonth != nil && (*r.PricePerMonth < 0 || math.IsNaN(*r.PricePerMonth) || math.IsInf(*r.PricePerMonth, 0)) {
		return "price_per_month must be a non-negative number"
	}
	if r.AvailabilityStatus != nil && !model.ValidAvailability(*r.AvailabilityStatus) {
		return "availability_status must be available, unavailable or booked"
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return "title cannot be empty"
	}
	if r.Location != nil && strings.TrimSpace(*r.Location) == "" {
		return "location cannot be empty"
	}
	return ""
}

// CreateSpace handles POST /v1/spaces. The space type follows the owner's
// role: building owners list buildings and vehicle owners list vehicles.
func (h *SpaceHandler) CreateSpace(c echo.Context) error {
	uid, role, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == nil || req.Location == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and location are required"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	st := role.SpaceType()
	if req.SpaceType != nil && model.SpaceType(strings.ToLower(strings.TrimSpace(*req.SpaceType))) != st {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "a " + role.Label() + " may only list " + string(st) + " spaces"})
	}

	s := &model.AdvertisingSpace{
		OwnerID:       uid,
		Title:         strings.TrimSpace(*req.Title),
		Description:   trimPtr(req.Description),
		Location:      strings.TrimSpace(*req.Location),
		SpaceType:     st,
		PricePerMonth: req.PricePerMonth,
		Dimensions:    trimPtr(req.Dimensions),
		Images:        req.Images,
		Amenities:     req.Amenities,
	}
	if req.AvailabilityStatus != nil {
		s.AvailabilityStatus = *req.AvailabilityStatus
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Spaces.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create space"})
	}
	invalidateAll(ctx, h.Invalidators)
	return c.JSON(http.StatusCreated, s)
}

// UpdateSpace handles PUT and PATCH /v1/spaces/:id. Only fields present in
// the body change; the space type is fixed at creation.
func (h *SpaceHandler) UpdateSpace(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	id := strings.TrimSpace(c.Param("id"))
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SpaceType != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "space_type cannot be changed"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	patch := repository.SpacePatch{
		Title:              trimPtr(req.Title),
		Description:        req.Description,
		Location:           trimPtr(req.Location),
		PricePerMonth:      req.PricePerMonth,
		Dimensions:         req.Dimensions,
		Images:             req.Images,
		Amenities:          req.Amenities,
		AvailabilityStatus: req.AvailabilityStatus,
	}
	s, err := h.Spaces.Update(ctx, id, uid, patch)
	switch {
	case errors.Is(err, repository.ErrSpaceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your space"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update space"})
	}
	invalidateAll(ctx, h.Invalidators)
	return c.JSON(http.StatusOK, s)
}

// MySpaces handles GET /v1/my/spaces.
func (h *SpaceHandler) MySpaces(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Spaces.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load spaces"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}
