package repository

import (
	"context"

	"github.com/adora-ads/adora-api/internal/model"
)

// Catalog groups the three table repositories behind the read methods the
// admin statistics need.
type Catalog struct {
	ProfileRepo *ProfileRepo
	SpaceRepo   *SpaceRepo
	BookingRepo *BookingRepo
}

func (c Catalog) Profiles(ctx context.Context) ([]model.Profile, error) {
	return c.ProfileRepo.ListAll(ctx)
}

func (c Catalog) Spaces(ctx context.Context) ([]model.AdvertisingSpace, error) {
	return c.SpaceRepo.ListAll(ctx)
}

func (c Catalog) Bookings(ctx context.Context) ([]model.Booking, error) {
	return c.BookingRepo.ListAll(ctx)
}
