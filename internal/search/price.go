package search

import (
	"math"
	"strconv"
	"strings"
)

// PriceBounds is a parsed price-range token. Max is nil for an open upper end.
type PriceBounds struct {
	Min float64
	Max *float64
}

// ParsePriceRange splits a token such as "10000-25000" or "50000" on "-".
//
// The lower bound must be numeric, otherwise ok is false and no price filter
// applies. An empty lower component counts as 0. The upper bound is applied
// only when the second component is present, numeric and non-zero; anything
// else leaves the range open ended. Components past the second are ignored.
func ParsePriceRange(token string) (PriceBounds, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return PriceBounds{}, false
	}
	parts := strings.Split(token, "-")
	lo, ok := parseAmount(parts[0])
	if !ok {
		return PriceBounds{}, false
	}
	b := PriceBounds{Min: lo}
	if len(parts) > 1 {
		if hi, ok := parseAmount(parts[1]); ok && hi != 0 {
			b.Max = &hi
		}
	}
	return b, true
}

// Contains reports whether price lies inside the bounds.
func (b PriceBounds) Contains(price float64) bool {
	if price < b.Min {
		return false
	}
	return b.Max == nil || price <= *b.Max
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
