package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// HomePage renders the public landing page.
func HomePage(visitor bool, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.open("section", a("id", "home-page"))
		h.element("h1", T(loc, "home.title"))
		h.element("p", T(loc, "home.tagline"))
		h.open("p", a("class", "actions"))
		if visitor {
			h.element("a", T(loc, "home.open_map"), a("href", routepath.AppMap), a("class", "button"))
		} else {
			h.element("a", T(loc, "home.start"), a("href", routepath.Onboarding), a("class", "button"))
		}
		h.element("a", T(loc, "home.browse"), a("href", routepath.AppListings))
		h.close("p")
		h.close("section")
	})
}
