package compare

import (
	"net/url"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	"github.com/louisbranch/nestmap/internal/services/web/propertyview"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
	"github.com/samber/lo"
)

const (
	minCompared = 2
	maxCompared = 4
)

// parseSelection reads property ids from repeated id parameters and the
// comma separated ids parameter, keeping first occurrences.
func parseSelection(query url.Values) ([]string, error) {
	raw := append([]string{}, query["id"]...)
	for _, list := range query[routepath.CompareIDsQueryParameter] {
		raw = append(raw, strings.Split(list, ",")...)
	}
	ids := lo.Uniq(lo.FilterMap(raw, func(id string, _ int) (string, bool) {
		id = strings.TrimSpace(id)
		return id, id != ""
	}))
	if len(ids) < minCompared || len(ids) > maxCompared {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "error.compare.invalid_selection", "compare needs 2 to 4 properties")
	}
	return ids, nil
}

// buildReport lays out one row per category in order and marks the highest
// known score of each row. Ties are all marked.
func buildReport(properties []mapview.Property, order []mapview.Category, loc webtemplates.Localizer) webtemplates.CompareView {
	view := webtemplates.CompareView{
		Columns: lo.Map(properties, func(p mapview.Property, _ int) webtemplates.CompareColumn {
			return webtemplates.CompareColumn{
				ID:        p.ID,
				Title:     p.Title,
				Price:     propertyview.Price(p.Price, loc),
				DetailURL: routepath.AppListing(p.ID),
			}
		}),
	}
	for _, c := range order {
		row := webtemplates.CompareRow{Category: c.String(), Label: webtemplates.T(loc, c.LabelKey())}
		best, found := 0.0, false
		for _, p := range properties {
			if score, ok := p.Score(c); ok && (!found || score > best) {
				best, found = score, true
			}
		}
		for _, p := range properties {
			cell := webtemplates.ScoreCell{Category: c.String()}
			if score, ok := p.Score(c); ok {
				cell.Known = true
				cell.Value = propertyview.Score(score, loc)
				cell.Best = score == best
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
