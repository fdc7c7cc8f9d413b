package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adora-ads/adora-api/internal/model"
)

func listing(title, location string, typ model.SpaceType, price float64) model.AdvertisingSpace {
	return model.AdvertisingSpace{
		Title:              title,
		Location:           location,
		SpaceType:          typ,
		PricePerMonth:      &price,
		AvailabilityStatus: model.AvailabilityAvailable,
	}
}

func TestMatch(t *testing.T) {
	wall := listing("Lekki Wall", "Lekki, Lagos State", model.SpaceBuilding, 45000)
	bus := listing("Danfo 100%", "Wuse, FCT", model.SpaceVehicle, 8000)
	booked := wall
	booked.AvailabilityStatus = model.AvailabilityBooked
	unpriced := wall
	unpriced.PricePerMonth = nil

	cases := []struct {
		name string
		f    Filters
		s    model.AdvertisingSpace
		want bool
	}{
		{"no filters", Filters{}, wall, true},
		{"only available", Filters{}, booked, false},
		{"query in title", Filters{Query: " WALL "}, wall, true},
		{"query in location", Filters{Query: "lagos"}, wall, true},
		{"query misses", Filters{Query: "abuja"}, wall, false},
		{"percent is literal", Filters{Query: "%"}, wall, false},
		{"percent in title", Filters{Query: "100%"}, bus, true},
		{"state and query both apply", Filters{Query: "lekki", State: "fct"}, wall, false},
		{"type", Filters{SpaceType: model.SpaceVehicle}, wall, false},
		{"lower bound only", Filters{PriceRange: "40000"}, wall, true},
		{"inside range", Filters{PriceRange: "10000-50000"}, wall, true},
		{"above range", Filters{PriceRange: "10000-25000"}, wall, false},
		{"zero upper bound is open", Filters{PriceRange: "10000-0"}, wall, true},
		{"non-numeric upper bound is open", Filters{PriceRange: "10000-abc"}, wall, true},
		{"non-numeric lower bound skips price", Filters{PriceRange: "abc-100"}, wall, true},
		{"no price fails a price filter", Filters{PriceRange: "0"}, unpriced, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Match(c.f, c.s))
		})
	}
}

func TestFilter_BuildingPriceScenario(t *testing.T) {
	items := []model.AdvertisingSpace{
		listing("Vehicle B", "Kano", model.SpaceVehicle, 30000),
		listing("Vehicle A", "Lagos", model.SpaceVehicle, 15000),
		listing("Building C", "Abuja", model.SpaceBuilding, 60000),
		listing("Building B", "Ikeja", model.SpaceBuilding, 20000),
		listing("Building A", "Lagos", model.SpaceBuilding, 12000),
	}
	got := Filter(Filters{SpaceType: model.SpaceBuilding, PriceRange: "10000-25000"}, items)
	var titles []string
	for _, s := range got {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Building B", "Building A"}, titles)
	assert.Empty(t, Filter(Filters{Query: "nowhere"}, items))
}
