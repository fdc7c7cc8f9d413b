package repository

import (
	"context"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/search"
)

// SpaceSearchQuery defines filters & pagination for searching spaces.
// WithOwner selects the enhanced variant that joins the owner's public
// profile onto each listing.
type SpaceSearchQuery struct {
	Filters   search.Filters
	Page      search.Page
	WithOwner bool
}

// SpaceSearchResult is one page of listings plus the total match count.
type SpaceSearchResult struct {
	Items []model.AdvertisingSpace
	Total int64
}

// Search runs the composed filter predicate against advertising_spaces.
// Only available listings are ever returned; ordering is newest first.
func (r *SpaceRepo) Search(ctx context.Context, q SpaceSearchQuery) (SpaceSearchResult, error) {
	page := q.Page.Normalize()
	pred := search.Build(q.Filters, "s.")

	var total int64
	countSQL := `SELECT COUNT(*) FROM advertising_spaces s WHERE ` + pred.Where
	if err := r.db.QueryRowContext(ctx, countSQL, pred.Args...).Scan(&total); err != nil {
		return SpaceSearchResult{}, err
	}
	if total == 0 {
		return SpaceSearchResult{Items: []model.AdvertisingSpace{}}, nil
	}

	dataSQL := `SELECT ` + spaceColumns
	if q.WithOwner {
		dataSQL += `, ` + ownerColumns + `
		FROM advertising_spaces s
		` + ownerJoin
	} else {
		dataSQL += `
		FROM advertising_spaces s`
	}
	dataSQL += `
		WHERE ` + pred.Where + `
		ORDER BY ` + search.OrderBy("s.") + `
		LIMIT ? OFFSET ?`

	args := append(append([]any{}, pred.Args...), page.Size, page.Offset())
	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return SpaceSearchResult{}, err
	}
	items, err := scanSpaces(rows, q.WithOwner, page.Size)
	if err != nil {
		return SpaceSearchResult{}, err
	}
	return SpaceSearchResult{Items: items, Total: total}, nil
}
