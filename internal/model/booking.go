package model

import (
	"encoding/json"
	"math"
	"time"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// DateLayout is the wire and storage format of booking dates.
const DateLayout = "2006-01-02"

// Booking is a reservation of a space by an advertiser for a date range,
// one row in `bookings`.
type Booking struct {
	ID              string          `json:"id"`
	SpaceID         string          `json:"space_id"`
	AdvertiserID    string          `json:"advertiser_id"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TotalAmount     float64         `json:"total_amount"`
	BookingStatus   string          `json:"booking_status"`
	PaymentStatus   string          `json:"payment_status"`
	CampaignDetails json.RawMessage `json:"campaign_details,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BookingDays counts calendar days in [start, end], both inclusive.
func BookingDays(start, end time.Time) int {
	d := int(end.Truncate(24*time.Hour).Sub(start.Truncate(24*time.Hour)).Hours()/24) + 1
	if d < 0 {
		return 0
	}
	return d
}

// BookingAmount prorates a monthly price over the booked days using a
// 30 day month and rounds to two decimals.
func BookingAmount(pricePerMonth float64, start, end time.Time) float64 {
	if pricePerMonth <= 0 {
		return 0
	}
	amount := pricePerMonth * float64(BookingDays(start, end)) / 30
	return math.Round(amount*100) / 100
}
