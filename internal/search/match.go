package search

import (
	"strings"

	"github.com/adora-ads/adora-api/internal/model"
)

// Match reports whether s satisfies f, applying the same rules as Build in
// memory: only available listings, free text against location or title,
// state against location, exact space type and the parsed price bounds.
// Text matching is a case-insensitive literal substring test.
func Match(f Filters, s model.AdvertisingSpace) bool {
	if s.AvailabilityStatus != model.AvailabilityAvailable {
		return false
	}
	loc, title := strings.ToLower(s.Location), strings.ToLower(s.Title)
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !strings.Contains(loc, q) && !strings.Contains(title, q) {
		return false
	}
	if st := strings.ToLower(strings.TrimSpace(f.State)); st != "" && !strings.Contains(loc, st) {
		return false
	}
	if f.SpaceType != "" && s.SpaceType != f.SpaceType {
		return false
	}
	if b, ok := ParsePriceRange(f.PriceRange); ok {
		if s.PricePerMonth == nil || !b.Contains(*s.PricePerMonth) {
			return false
		}
	}
	return true
}

// Filter returns the elements of items that Match f, in their original
// order.
func Filter(f Filters, items []model.AdvertisingSpace) []model.AdvertisingSpace {
	out := make([]model.AdvertisingSpace, 0, len(items))
	for _, s := range items {
		if Match(f, s) {
			out = append(out, s)
		}
	}
	return out
}
