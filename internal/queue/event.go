// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEventsQueue is the durable queue booking events are routed to.
const BookingEventsQueue = "booking.events"

// Booking event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingPaid      = "booking.paid"
)

// BookingEvent is published whenever a booking is created or changes status.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingEvent struct {
	Type          string  `json:"type"`
	BookingID     string  `json:"booking_id"`
	SpaceID       string  `json:"space_id"`
	SpaceTitle    string  `json:"space_title"`
	SpaceLocation string  `json:"space_location"`
	OwnerID       string  `json:"owner_id"`
	AdvertiserID  string  `json:"advertiser_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalAmount   float64 `json:"total_amount"`
	BookingStatus string  `json:"booking_status"`
	PaymentStatus string  `json:"payment_status"`
	OccurredAt    string  `json:"occurred_at"`
}
