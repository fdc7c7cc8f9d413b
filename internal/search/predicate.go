package search

import (
	"strings"

	"github.com/adora-ads/adora-api/internal/model"
)

// likeEscape is the ESCAPE character used in every LIKE pattern. MySQL and
// SQLite both accept an explicit single character escape.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// Predicate is a composed WHERE clause with its positional arguments.
type Predicate struct {
	Where string
	Args  []any
}

// Build composes the predicate for f. col qualifies the advertising_spaces
// columns, e.g. "s." when the table is aliased or "" when it is not.
func Build(f Filters, col string) Predicate {
	where := []string{col + "availability_status = ?"}
	args := []any{model.AvailabilityAvailable}

	if q := strings.TrimSpace(f.Query); q != "" {
		p := containsPattern(q)
		where = append(where, "(LOWER("+col+"location) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER("+col+"title) LIKE ? ESCAPE '"+likeEscape+"')")
		args = append(args, p, p)
	}
	if st := strings.TrimSpace(f.State); st != "" {
		where = append(where, "LOWER("+col+"location) LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, containsPattern(st))
	}
	if f.SpaceType != "" {
		where = append(where, col+"space_type = ?")
		args = append(args, string(f.SpaceType))
	}
	if b, ok := ParsePriceRange(f.PriceRange); ok {
		where = append(where, col+"price_per_month >= ?")
		args = append(args, b.Min)
		if b.Max != nil {
			where = append(where, col+"price_per_month <= ?")
			args = append(args, *b.Max)
		}
	}
	return Predicate{Where: strings.Join(where, " AND "), Args: args}
}

// OrderBy is the result ordering of every search path: newest listing first,
// id as a stable tiebreaker.
func OrderBy(col string) string {
	return col + "created_at DESC, " + col + "id DESC"
}

func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}
