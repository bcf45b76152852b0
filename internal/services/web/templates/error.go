package templates

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func errorKeys(statusCode int) (title, body string) {
	if statusCode == http.StatusNotFound {
		return "error.title.not_found", "error.body.not_found"
	}
	if statusCode == http.StatusServiceUnavailable {
		return "error.title.unavailable", "error.body.unavailable"
	}
	return "error.title.server", "error.body.server"
}

// ErrorPageTitle returns the browser title for an error page.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	title, _ := errorKeys(statusCode)
	return T(loc, title)
}

// ErrorState renders the error panel of an app-shell error page.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		title, body := errorKeys(statusCode)
		h.open("section", a("id", "app-error-state"), a("data-status", strconv.Itoa(statusCode)))
		h.element("h1", T(loc, title))
		h.element("p", T(loc, body))
		h.element("a", T(loc, "error.action.home"), a("href", routepath.Root))
		h.close("section")
	})
}
