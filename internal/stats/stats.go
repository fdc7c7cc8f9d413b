// Package stats derives the admin dashboard figures from fetched rows.
// Compute is a pure reducer: the same input always yields the same output
// and nothing is cached between calls.
package stats

import (
	"math"
	"time"

	"github.com/adora-ads/adora-api/internal/model"
)

// Summary holds the dashboard counters.
type Summary struct {
	TotalUsers     int     `json:"total_users"`
	BuildingOwners int     `json:"building_owners"`
	VehicleOwners  int     `json:"vehicle_owners"`
	BrandCompanies int     `json:"brand_companies"`
	Admins         int     `json:"admins"`
	TotalSpaces    int     `json:"total_spaces"`
	ActiveSpaces   int     `json:"active_spaces"`
	TotalBookings  int     `json:"total_bookings"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// Snapshot is a Summary stamped with the time it was computed.
type Snapshot struct {
	Summary
	ComputedAt time.Time `json:"computed_at"`
}

// Compute reduces the three collections into a Summary. Revenue is the sum
// of every booking's total_amount, rounded to cents.
func Compute(profiles []model.Profile, spaces []model.AdvertisingSpace, bookings []model.Booking) Summary {
	s := Summary{
		TotalUsers:    len(profiles),
		TotalSpaces:   len(spaces),
		TotalBookings: len(bookings),
	}
	for _, p := range profiles {
		switch p.Role {
		case model.RoleBuildingOwner:
			s.BuildingOwners++
		case model.RoleVehicleOwner:
			s.VehicleOwners++
		case model.RoleBrandCompany:
			s.BrandCompanies++
		case model.RoleAdmin:
			s.Admins++
		}
	}
	for _, sp := range spaces {
		if sp.AvailabilityStatus == model.AvailabilityAvailable {
			s.ActiveSpaces++
		}
	}
	var revenue float64
	for _, b := range bookings {
		revenue += b.TotalAmount
	}
	s.TotalRevenue = math.Round(revenue*100) / 100
	return s
}
