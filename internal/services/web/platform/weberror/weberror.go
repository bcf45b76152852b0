// Package weberror renders shared app-shell error responses for web modules.
package weberror

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/nestmap/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes a localized error page, or only the error panel for
// HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, resolver module.RequestResolver) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}

	var resolveLanguage module.ResolveLanguage
	visitor := false
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
		visitor = resolver.ResolveRequestVisitorID(r) != ""
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, resolveLanguage)
	ctx := templ.WithChildren(httpx.RequestContext(r), webtemplates.ErrorState(statusCode, loc))

	var page templ.Component
	if httpx.IsHTMXRequest(r) {
		page = webtemplates.MainContent()
	} else {
		path := ""
		if r != nil && r.URL != nil {
			path = r.URL.Path
		}
		page = webtemplates.Layout(webtemplates.PageContext{
			Title:       webtemplates.ErrorPageTitle(statusCode, loc),
			Lang:        lang,
			Loc:         loc,
			CurrentPath: path,
			Visitor:     visitor,
		})
	}

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		http.Error(w, PublicMessage(loc, err), statusCode)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

// WriteModuleError writes a module-safe localized error response: an error
// page for not-found and server failures, plain text otherwise.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver module.RequestResolver) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, resolver)
		return
	}
	var resolveLanguage module.ResolveLanguage
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, _ := webi18n.ResolveLocalizer(w, r, resolveLanguage)
	http.Error(w, PublicMessage(loc, err), statusCode)
}
