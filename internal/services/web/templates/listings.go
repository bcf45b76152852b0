package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// ScoreCell is one category score of one property.
type ScoreCell struct {
	Category string
	Label    string
	Value    string
	Known    bool
	Best     bool
}

// ListingCard summarizes one property.
type ListingCard struct {
	ID        string
	Title     string
	Address   string
	Price     string
	DetailURL string
	Scores    []ScoreCell
}

// ListingsView is the search page state.
type ListingsView struct {
	Query       string
	MinPrice    string
	MaxPrice    string
	Results     []ListingCard
	NextPageURL string
	Error       string
}

// ListingsPage renders the search form, results and the compare picker.
func ListingsPage(view ListingsView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", a("id", "listings-page"))
		h.element("h1", T(loc, "listings.title"))

		h.open("form", a("id", "listings-search"), a("method", "get"), a("action", routepath.AppListings))
		searchField(h, "q", "search", T(loc, "listings.search.query"), view.Query)
		searchField(h, "min_price", "number", T(loc, "listings.search.min_price"), view.MinPrice)
		searchField(h, "max_price", "number", T(loc, "listings.search.max_price"), view.MaxPrice)
		h.element("button", T(loc, "listings.search.submit"), a("type", "submit"))
		h.close("form")

		if view.Error != "" {
			h.element("p", view.Error, a("class", "form-error"), a("role", "alert"))
		}
		if len(view.Results) == 0 {
			h.element("p", T(loc, "listings.empty"), a("id", "listings-empty"))
			h.close("section")
			return
		}

		h.open("form", a("id", "compare-picker"), a("method", "get"), a("action", routepath.AppCompare))
		h.open("ul", a("id", "listings-results"))
		for _, card := range view.Results {
			h.open("li", a("data-property-id", card.ID))
			h.open("label")
			h.open("input", a("type", "checkbox"), a("name", "id"), a("value", card.ID))
			h.text(" " + T(loc, "listings.add_compare"))
			h.close("label")
			listingSummary(h, card, loc)
			h.close("li")
		}
		h.close("ul")
		h.element("button", T(loc, "listings.compare_submit"), a("type", "submit"))
		h.close("form")

		if view.NextPageURL != "" {
			h.element("a", T(loc, "listings.next_page"), a("id", "listings-next"), a("href", view.NextPageURL))
		}
		h.close("section")
	})
}

// ListingDetailPage renders one property with scores in the visitor's order.
func ListingDetailPage(card ListingCard, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", a("id", "listing-detail"), a("data-property-id", card.ID))
		h.element("h1", card.Title)
		h.open("dl")
		h.element("dt", T(loc, "listing.detail.address"))
		h.element("dd", card.Address)
		h.element("dt", T(loc, "listing.detail.price"))
		h.element("dd", card.Price)
		h.close("dl")
		h.element("h2", T(loc, "listing.detail.scores"))
		scoreList(h, card.Scores, loc)
		h.open("form", a("method", "post"), a("action", routepath.AppMapSelect))
		h.open("input", a("type", "hidden"), a("name", "property_id"), a("value", card.ID))
		h.element("button", T(loc, "listings.show_on_map"), a("type", "submit"))
		h.close("form")
		h.element("a", T(loc, "listing.detail.back"), a("href", routepath.AppListings))
		h.close("section")
	})
}

func searchField(h *html, name, kind, label, value string) {
	h.open("label")
	h.text(label)
	h.open("input", a("type", kind), a("name", name), a("value", value))
	h.close("label")
}

func listingSummary(h *html, card ListingCard, loc Localizer) {
	h.open("a", a("href", card.DetailURL))
	h.element("strong", card.Title)
	h.close("a")
	h.element("span", card.Address, a("class", "address"))
	h.element("span", card.Price, a("class", "price"))
	scoreList(h, card.Scores, loc)
}

func scoreList(h *html, scores []ScoreCell, loc Localizer) {
	if len(scores) == 0 {
		return
	}
	h.open("ul", a("class", "scores"))
	for _, score := range scores {
		value := score.Value
		if !score.Known {
			value = T(loc, "score.unknown")
		}
		h.open("li", a("data-score-category", score.Category))
		h.element("span", score.Label, a("class", "score-label"))
		h.text(" ")
		h.element("span", value, a("class", "score-value"))
		h.close("li")
	}
	h.close("ul")
}
