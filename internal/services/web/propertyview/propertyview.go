// Package propertyview maps backend properties onto listing view models.
package propertyview

import (
	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
	"github.com/samber/lo"
)

// Card summarizes p with its scores listed in order.
func Card(p mapview.Property, order []mapview.Category, loc webtemplates.Localizer) webtemplates.ListingCard {
	return webtemplates.ListingCard{
		ID:        p.ID,
		Title:     p.Title,
		Address:   p.Address,
		Price:     Price(p.Price, loc),
		DetailURL: routepath.AppListing(p.ID),
		Scores:    ScoreCells(p, order, loc),
	}
}

// ScoreCells lists p's scores in order. Missing scores stay in place as
// unknown cells.
func ScoreCells(p mapview.Property, order []mapview.Category, loc webtemplates.Localizer) []webtemplates.ScoreCell {
	return lo.Map(order, func(c mapview.Category, _ int) webtemplates.ScoreCell {
		score, ok := p.Score(c)
		cell := webtemplates.ScoreCell{
			Category: c.String(),
			Label:    webtemplates.T(loc, c.LabelKey()),
			Known:    ok,
		}
		if ok {
			cell.Value = Score(score, loc)
		}
		return cell
	})
}

// Price formats a listing price for loc.
func Price(price int64, loc webtemplates.Localizer) string {
	return webtemplates.T(loc, "listing.price", price)
}

// Score formats one category score for loc.
func Score(score float64, loc webtemplates.Localizer) string {
	return webtemplates.T(loc, "listing.score", score)
}
