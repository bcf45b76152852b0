// Package modulehandler provides a composable base for web module handlers.
//
// Modules share visitor resolution, localization, page rendering, and error
// handling. Handlers embed Base instead of repeating that scaffold.
package modulehandler

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	webi18n "github.com/louisbranch/nestmap/internal/services/web/platform/i18n"
	"github.com/louisbranch/nestmap/internal/services/web/platform/pagerender"
	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/nestmap/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
	"golang.org/x/text/language"
)

// Base carries the shared request-scoped resolvers used by module handlers.
type Base struct {
	resolveVisitorID module.ResolveVisitorID
	resolveLanguage  module.ResolveLanguage
	policy           requestmeta.SchemePolicy
}

// NewBase builds a handler base from explicit resolver functions.
func NewBase(resolveVisitorID module.ResolveVisitorID, resolveLanguage module.ResolveLanguage, policy requestmeta.SchemePolicy) Base {
	return Base{
		resolveVisitorID: resolveVisitorID,
		resolveLanguage:  resolveLanguage,
		policy:           policy,
	}
}

// NewTestBase builds a handler base with a fixed visitor id.
func NewTestBase(visitorID string) Base {
	return Base{
		resolveVisitorID: func(*http.Request) string { return visitorID },
		resolveLanguage:  func(*http.Request) string { return "" },
	}
}

// ResolveRequestVisitorID returns the visitor id of a request, or "".
func (b Base) ResolveRequestVisitorID(r *http.Request) string {
	if r == nil || b.resolveVisitorID == nil {
		return ""
	}
	return strings.TrimSpace(b.resolveVisitorID(r))
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return ""
	}
	return b.resolveLanguage(r)
}

// RequestSchemePolicy returns the cookie scheme policy.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r, b.resolveLanguage)
}

// RequestLocaleTag returns the resolved language tag for the request.
func (b Base) RequestLocaleTag(r *http.Request) language.Tag {
	return webi18n.ResolveTag(r, b.resolveLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WritePage renders a module page, HTMX-aware.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteFragment renders a partial update for HTMX requests.
func (b Base) WriteFragment(w http.ResponseWriter, r *http.Request, fragment templ.Component) {
	if err := pagerender.WriteFragment(w, r, http.StatusOK, fragment); err != nil {
		b.WriteError(w, r, err)
	}
}

var _ module.RequestResolver = Base{}
