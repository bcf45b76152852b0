package templates

import (
	"context"

	"github.com/a-h/templ"
)

// CompareColumn heads one compared property.
type CompareColumn struct {
	ID        string
	Title     string
	Price     string
	DetailURL string
}

// CompareRow is one category across every compared property.
type CompareRow struct {
	Category string
	Label    string
	Cells    []ScoreCell
}

// CompareView is the comparison report.
type CompareView struct {
	Columns []CompareColumn
	Rows    []CompareRow
}

// ComparePage renders the side-by-side score report.
func ComparePage(view CompareView, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", a("id", "compare-page"))
		h.element("h1", T(loc, "compare.title"))
		h.open("table", a("id", "compare-table"))
		h.open("thead")
		h.open("tr")
		h.element("th", T(loc, "compare.category"), a("scope", "col"))
		for _, column := range view.Columns {
			h.open("th", a("scope", "col"), a("data-property-id", column.ID))
			h.element("a", column.Title, a("href", column.DetailURL))
			h.element("small", column.Price)
			h.close("th")
		}
		h.close("tr")
		h.close("thead")
		h.open("tbody")
		for _, row := range view.Rows {
			h.open("tr", a("data-compare-category", row.Category))
			h.element("th", row.Label, a("scope", "row"))
			for _, cell := range row.Cells {
				value := cell.Value
				if !cell.Known {
					value = T(loc, "score.unknown")
				}
				h.open("td", attrIf(cell.Best, "data-best", "true"))
				h.text(value)
				if cell.Best {
					h.element("span", T(loc, "compare.best"), a("class", "badge"))
				}
				h.close("td")
			}
			h.close("tr")
		}
		h.close("tbody")
		h.close("table")
		h.close("section")
	})
}
