// Package search turns the filter values chosen on the space search pages
// into a single read predicate over advertising_spaces.
//
// The composition rules are:
//   - availability_status = 'available' is always applied
//   - a non-blank free-text term matches location OR title, case-insensitive
//   - a state name matches location, ANDed with the free-text group
//   - space type is an equality match
//   - a price token "min-max" bounds both ends inclusively, "min" is open ended
//
// Results are ordered newest first.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/adora-ads/adora-api/internal/model"
)

// Query parameter names shared by the HTTP handlers and the client.
const (
	ParamQuery    = "q"
	ParamLocation = "location" // legacy alias of q used by the home page hero search
	ParamState    = "state"
	ParamType     = "type"
	ParamPrice    = "price"
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filters holds the raw user-chosen values. Zero values mean "unset".
type Filters struct {
	Query      string          // free text, matched against location and title
	State      string          // state name, matched against location
	SpaceType  model.SpaceType // building | vehicle
	PriceRange string          // "min-max" or "min"
}

// IsZero reports whether no filter narrows the base predicate.
func (f Filters) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && strings.TrimSpace(f.State) == "" &&
		f.SpaceType == "" && strings.TrimSpace(f.PriceRange) == ""
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane values.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the row offset of the first item on the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// FromValues reads filters and paging from URL query values. Unknown space
// types are dropped rather than rejected, matching the "All Types" option.
func FromValues(v url.Values) (Filters, Page) {
	q := v.Get(ParamQuery)
	if q == "" {
		q = v.Get(ParamLocation)
	}
	f := Filters{
		Query:      q,
		State:      v.Get(ParamState),
		PriceRange: strings.TrimSpace(v.Get(ParamPrice)),
	}
	if t := model.SpaceType(strings.ToLower(strings.TrimSpace(v.Get(ParamType)))); t.Valid() {
		f.SpaceType = t
	}
	num, _ := strconv.Atoi(v.Get(ParamPage))
	size, _ := strconv.Atoi(v.Get(ParamPageSize))
	return f, Page{Number: num, Size: size}.Normalize()
}

// Values encodes the filters back into query values, omitting unset ones.
func (f Filters) Values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(f.Query); s != "" {
		v.Set(ParamQuery, s)
	}
	if s := strings.TrimSpace(f.State); s != "" {
		v.Set(ParamState, s)
	}
	if f.SpaceType != "" {
		v.Set(ParamType, string(f.SpaceType))
	}
	if s := strings.TrimSpace(f.PriceRange); s != "" {
		v.Set(ParamPrice, s)
	}
	return v
}
