package model

import "time"

// SpaceType is the kind of advertising surface.
type SpaceType string

const (
	SpaceBuilding SpaceType = "building"
	SpaceVehicle  SpaceType = "vehicle"
)

// Valid reports whether t is building or vehicle.
func (t SpaceType) Valid() bool { return t == SpaceBuilding || t == SpaceVehicle }

// Availability values of advertising_spaces.availability_status.
const (
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
	AvailabilityBooked      = "booked"
)

// ValidAvailability reports whether s is an accepted availability status.
func ValidAvailability(s string) bool {
	return s == AvailabilityAvailable || s == AvailabilityUnavailable || s == AvailabilityBooked
}

// AdvertisingSpace is a rentable listing, one row in `advertising_spaces`.
// PricePerMonth is nil when the owner has not published a price.
type AdvertisingSpace struct {
	ID                 string        `json:"id"`
	OwnerID            string        `json:"owner_id"`
	Title              string        `json:"title"`
	Description        *string       `json:"description,omitempty"`
	Location           string        `json:"location"`
	SpaceType          SpaceType     `json:"space_type"`
	PricePerMonth      *float64      `json:"price_per_month,omitempty"`
	Dimensions         *string       `json:"dimensions,omitempty"`
	Images             []string      `json:"images"`
	Amenities          []string      `json:"amenities"`
	AvailabilityStatus string        `json:"availability_status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Owner              *OwnerSummary `json:"profiles,omitempty"`
}

// Price returns the monthly price or zero when unset.
func (s AdvertisingSpace) Price() float64 {
	if s.PricePerMonth == nil {
		return 0
	}
	return *s.PricePerMonth
}
