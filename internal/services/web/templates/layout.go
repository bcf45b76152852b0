// Package templates renders the HTML surface of the web service.
package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// FlashNotice is a one-time message shown above page content.
type FlashNotice struct {
	Kind    string
	Message string
}

// PageContext carries the chrome shared by every page.
type PageContext struct {
	Title       string
	Lang        string
	Loc         Localizer
	CurrentPath string
	Visitor     bool
	Flash       *FlashNotice
}

type navItem struct {
	key  string
	path string
}

var appNav = []navItem{
	{key: "nav.listings", path: routepath.AppListings},
	{key: "nav.map", path: routepath.AppMap},
	{key: "nav.compare", path: routepath.AppCompare},
	{key: "nav.profile", path: routepath.AppProfile},
}

// Layout renders a full document around the children in ctx.
func Layout(page PageContext) templ.Component {
	return component(func(ctx context.Context, h *html) {
		lang := strings.TrimSpace(page.Lang)
		if lang == "" {
			lang = "en-US"
		}
		appName := T(page.Loc, "app.name")
		title := appName
		if page.Title != "" {
			title = page.Title + " | " + appName
		}

		h.raw("<!DOCTYPE html>")
		h.open("html", a("lang", lang))
		h.open("head")
		h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.element("title", title)
		h.open("link", a("rel", "stylesheet"), a("href", routepath.StaticPrefix+"app.css"))
		h.open("script", a("src", routepath.StaticPrefix+"map.js"), flag("defer", true))
		h.close("script")
		h.close("head")
		h.open("body")

		h.open("header", a("class", "app-header"))
		h.open("a", a("class", "app-brand"), a("href", routepath.Root))
		h.text(appName)
		h.close("a")
		h.open("nav", a("id", "app-nav"))
		if page.Visitor {
			for _, item := range appNav {
				h.element("a", T(page.Loc, item.key),
					a("href", item.path),
					attrIf(strings.HasPrefix(page.CurrentPath, item.path), "aria-current", "page"),
				)
			}
		} else {
			h.element("a", T(page.Loc, "nav.onboarding"), a("href", routepath.Onboarding))
		}
		h.close("nav")
		h.close("header")

		h.open("main", a("id", "main"))
		if page.Flash != nil && page.Flash.Message != "" {
			h.element("div", page.Flash.Message,
				a("id", "flash-notice"),
				a("class", "flash flash-"+page.Flash.Kind),
				a("role", "status"),
			)
		}
		h.render(ctx, templ.GetChildren(ctx))
		h.close("main")
		h.close("body")
		h.close("html")
	})
}

// MainContent renders only the children, for HTMX swaps.
func MainContent() templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, templ.GetChildren(ctx))
	})
}
