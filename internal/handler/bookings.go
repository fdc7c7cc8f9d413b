package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/queue"
	"github.com/adora-ads/adora-api/internal/repository"
)

// BookingHandler serves brand bookings and the owner side of the booking
// workflow. Every state change is published as a queue.BookingEvent.
type BookingHandler struct {
	Bookings     *repository.BookingRepo
	Publisher    EventPublisher // nil disables events
	Invalidators []Invalidator
}

func NewBookingHandler(bookings *repository.BookingRepo, pub EventPublisher, invs ...Invalidator) *BookingHandler {
	if bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Publisher: pub, Invalidators: invs}
}

type bookingReq struct {
	SpaceID         string          `json:"space_id"`
	StartDate       string          `json:"start_date"` // YYYY-MM-DD
	EndDate         string          `json:"end_date"`   // YYYY-MM-DD, inclusive
	CampaignDetails json.RawMessage `json:"campaign_details"`
}

// CreateBooking handles POST /v1/bookings for brand companies.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.SpaceID = strings.TrimSpace(req.SpaceID)
	if req.SpaceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "space_id is required"})
	}
	start, err := time.Parse(model.DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date format"})
	}
	end, err := time.Parse(model.DateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date format"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not be before start_date"})
	}
	if len(req.CampaignDetails) > 0 && !json.Valid(req.CampaignDetails) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "campaign_details must be JSON"})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	b := &model.Booking{
		SpaceID:         req.SpaceID,
		AdvertiserID:    uid,
		StartDate:       start,
		EndDate:         end,
		CampaignDetails: req.CampaignDetails,
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrSpaceNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		case errors.Is(err, repository.ErrSpaceUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "space is not available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	invalidateAll(ctx, h.Invalidators)

	if d, err := h.Bookings.GetDetail(ctx, b.ID); err == nil {
		h.publish(ctx, queue.EventBookingCreated, d)
	}
	return c.JSON(http.StatusCreated, b)
}

// MyBookings handles GET /v1/my/bookings for brand companies.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Bookings.ListByAdvertiser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}

// OwnerBookings handles GET /v1/owner/bookings: bookings placed on the
// caller's spaces.
func (h *BookingHandler) OwnerBookings(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Bookings.ListBySpaceOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}

// ConfirmBooking handles PATCH /v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	return h.transition(c, model.BookingConfirmed, queue.EventBookingConfirmed)
}

// CancelBooking handles PATCH /v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	return h.transition(c, model.BookingCancelled, queue.EventBookingCancelled)
}

func (h *BookingHandler) transition(c echo.Context, status, event string) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	d, err := h.Bookings.SetBookingStatus(ctx, c.Param("id"), uid, status)
	if err != nil {
		return bookingError(c, err, "only pending bookings can be "+status)
	}
	h.publish(ctx, event, d)
	return c.JSON(http.StatusOK, d)
}

// PayBooking handles PATCH /v1/bookings/:id/pay. Only the paid flag is
// recorded; no payment is processed.
func (h *BookingHandler) PayBooking(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	d, err := h.Bookings.MarkPaid(ctx, c.Param("id"), uid)
	if err != nil {
		return bookingError(c, err, "only confirmed unpaid bookings can be paid")
	}
	invalidateAll(ctx, h.Invalidators)
	h.publish(ctx, queue.EventBookingPaid, d)
	return c.JSON(http.StatusOK, d)
}

func bookingError(c echo.Context, err error, conflict string) error {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
}

// publish is best effort: a broker outage never fails the request.
func (h *BookingHandler) publish(ctx context.Context, typ string, d *repository.BookingDetail) {
	if h.Publisher == nil || d == nil {
		return
	}
	_ = h.Publisher.PublishBookingEvent(ctx, NewBookingEvent(typ, d, time.Now().UTC()))
}

// NewBookingEvent builds the broker payload for a booking.
func NewBookingEvent(typ string, d *repository.BookingDetail, at time.Time) queue.BookingEvent {
	return queue.BookingEvent{
		Type:          typ,
		BookingID:     d.ID,
		SpaceID:       d.SpaceID,
		SpaceTitle:    d.SpaceTitle,
		SpaceLocation: d.SpaceLocation,
		OwnerID:       d.SpaceOwnerID,
		AdvertiserID:  d.AdvertiserID,
		StartDate:     d.StartDate.Format(model.DateLayout),
		EndDate:       d.EndDate.Format(model.DateLayout),
		TotalAmount:   d.TotalAmount,
		BookingStatus: d.BookingStatus,
		PaymentStatus: d.PaymentStatus,
		OccurredAt:    at.Format(time.RFC3339),
	}
}
