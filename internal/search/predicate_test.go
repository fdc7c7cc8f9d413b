package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adora-ads/adora-api/internal/model"
)

func TestBuild_NoFilters(t *testing.T) {
	p := Build(Filters{}, "")
	assert.Equal(t, "availability_status = ?", p.Where)
	assert.Equal(t, []any{"available"}, p.Args)
}

func TestBuild_BlankQueryAddsNothing(t *testing.T) {
	p := Build(Filters{Query: "   ", State: "\t"}, "s.")
	assert.Equal(t, "s.availability_status = ?", p.Where)
}

func TestBuild_AllFilters(t *testing.T) {
	p := Build(Filters{
		Query:      "  Lagos ",
		State:      "Lagos State",
		SpaceType:  model.SpaceBuilding,
		PriceRange: "10000-25000",
	}, "s.")

	assert.Equal(t,
		"s.availability_status = ? AND "+
			"(LOWER(s.location) LIKE ? ESCAPE '!' OR LOWER(s.title) LIKE ? ESCAPE '!') AND "+
			"LOWER(s.location) LIKE ? ESCAPE '!' AND "+
			"s.space_type = ? AND "+
			"s.price_per_month >= ? AND s.price_per_month <= ?",
		p.Where)
	assert.Equal(t, []any{"available", "%lagos%", "%lagos%", "%lagos state%", "building", 10000.0, 25000.0}, p.Args)
}

func TestBuild_OpenPriceAndBadPrice(t *testing.T) {
	p := Build(Filters{PriceRange: "50000"}, "")
	assert.Equal(t, "availability_status = ? AND price_per_month >= ?", p.Where)
	assert.Equal(t, []any{"available", 50000.0}, p.Args)

	p = Build(Filters{PriceRange: "cheap"}, "")
	assert.Equal(t, "availability_status = ?", p.Where)
}

func TestBuild_EscapesWildcards(t *testing.T) {
	p := Build(Filters{Query: "100%_off!"}, "")
	assert.Equal(t, `%100!%!_off!!%`, p.Args[1])
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "s.created_at DESC, s.id DESC", OrderBy("s."))
}
