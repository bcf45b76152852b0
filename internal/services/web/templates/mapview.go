package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// MapPanel is one category panel, listed in display order.
type MapPanel struct {
	Category     string
	Label        string
	Active       bool
	Status       string
	FeatureCount int
	Score        string
	ToggleURL    string
}

// MapPageView is the rendered state of one map view.
type MapPageView struct {
	ViewID     string
	Mode       string
	Selected   *ListingCard
	Panels     []MapPanel
	Notice     string
	Candidates []ListingCard
}

// MapPage renders the map page wrapper around the swappable fragment.
func MapPage(view MapPageView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.open("section", a("id", "map-page"))
		h.element("h1", T(loc, "map.title"))
		h.render(ctx, MapFragment(view, loc))
		h.close("section")
	})
}

// MapFragment renders the part of the map page replaced after each action.
func MapFragment(view MapPageView, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("div",
			a("id", "map-view"),
			a("data-view-id", view.ViewID),
			a("data-map-mode", view.Mode),
			a("data-overlays-url", routepath.AppMapOverlays),
		)

		if view.Notice != "" {
			h.open("div", a("id", "map-toast"), a("class", "toast"), a("role", "alert"))
			h.element("span", view.Notice)
			h.open("form", a("method", "post"), a("action", routepath.AppMapNoticeDismiss), a("hx-post", routepath.AppMapNoticeDismiss), a("hx-target", "#map-view"), a("hx-swap", "outerHTML"))
			h.element("button", T(loc, "map.notice.dismiss"), a("type", "submit"))
			h.close("form")
			h.close("div")
		}

		modeSwitch(h, view.Mode, loc)

		h.open("div", a("class", "map-layout"))
		h.open("div", a("id", "map-canvas"), a("class", "map-canvas"), attrIf(view.Selected != nil, "data-property-id", selectedID(view.Selected)))
		if view.Selected == nil {
			h.element("p", T(loc, "map.select.prompt"), a("class", "map-empty"))
		} else {
			h.element("h2", view.Selected.Title, a("id", "map-selected"))
			h.element("p", view.Selected.Address)
			h.open("form", a("method", "post"), a("action", routepath.AppMapSelect))
			h.open("input", a("type", "hidden"), a("name", "property_id"), a("value", ""))
			h.element("button", T(loc, "map.select.clear"), a("type", "submit"))
			h.close("form")
		}
		h.close("div")

		h.open("ol", a("id", "map-panels"))
		for _, panel := range view.Panels {
			mapPanel(h, panel, loc)
		}
		h.close("ol")
		h.close("div")

		if len(view.Candidates) > 0 {
			h.open("ul", a("id", "map-candidates"))
			for _, card := range view.Candidates {
				h.open("li", a("data-property-id", card.ID))
				h.open("form", a("method", "post"), a("action", routepath.AppMapSelect))
				h.open("input", a("type", "hidden"), a("name", "property_id"), a("value", card.ID))
				h.element("button", card.Title, a("type", "submit"), attrIf(view.Selected != nil && view.Selected.ID == card.ID, "aria-pressed", "true"))
				h.close("form")
				h.element("span", card.Price, a("class", "price"))
				h.close("li")
			}
			h.close("ul")
		}
		h.close("div")
	})
}

func modeSwitch(h *html, current string, loc Localizer) {
	h.open("form", a("id", "map-mode"), a("method", "post"), a("action", routepath.AppMapMode))
	for _, mode := range []string{"list", "map"} {
		h.element("button", T(loc, "map.mode."+mode),
			a("type", "submit"),
			a("name", "mode"),
			a("value", mode),
			attrIf(mode == current, "aria-pressed", "true"),
		)
	}
	h.close("form")
}

func mapPanel(h *html, panel MapPanel, loc Localizer) {
	h.open("li",
		a("data-panel-category", panel.Category),
		a("data-panel-active", strconv.FormatBool(panel.Active)),
		a("data-panel-status", panel.Status),
	)
	h.element("h3", panel.Label)
	if panel.Score != "" {
		h.element("span", panel.Score, a("class", "score-value"))
	}
	if panel.Active {
		h.element("p", T(loc, "map.panel.status."+panel.Status), a("class", "panel-status"))
		if panel.Status == "ready" {
			h.element("p", T(loc, "map.panel.features", panel.FeatureCount), a("class", "panel-features"))
		}
	}
	toggleKey := "map.panel.on"
	if panel.Active {
		toggleKey = "map.panel.off"
	}
	h.open("form", a("method", "post"), a("action", panel.ToggleURL), a("hx-post", panel.ToggleURL), a("hx-target", "#map-view"), a("hx-swap", "outerHTML"))
	h.element("button", T(loc, toggleKey), a("type", "submit"), a("aria-pressed", strconv.FormatBool(panel.Active)))
	h.close("form")
	h.close("li")
}

func selectedID(card *ListingCard) string {
	if card == nil {
		return ""
	}
	return card.ID
}
