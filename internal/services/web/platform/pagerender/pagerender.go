// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	flashnotice "github.com/louisbranch/nestmap/internal/services/web/platform/flash"
	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/nestmap/internal/services/web/platform/i18n"
	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
)

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage renders page inside the document layout, or alone for
// HTMX requests. A pending flash notice is consumed by full-page renders only.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver module.RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	var resolveLanguage module.ResolveLanguage
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, resolveLanguage)
	ctx := templ.WithChildren(httpx.RequestContext(r), fragment)

	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := webtemplates.MainContent().Render(ctx, &buf); err != nil {
			return err
		}
	} else {
		pageCtx := webtemplates.PageContext{Title: page.Title, Lang: lang, Loc: loc}
		if r != nil && r.URL != nil {
			pageCtx.CurrentPath = r.URL.Path
		}
		policy := requestmeta.SchemePolicy{}
		if resolver != nil {
			pageCtx.Visitor = resolver.ResolveRequestVisitorID(r) != ""
			policy = resolver.RequestSchemePolicy()
		}
		pageCtx.Flash = resolveFlash(w, r, loc, policy)
		if err := webtemplates.Layout(pageCtx).Render(ctx, &buf); err != nil {
			return err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// WriteFragment renders component alone, for HTMX partial updates.
func WriteFragment(w http.ResponseWriter, r *http.Request, statusCode int, component templ.Component) error {
	if w == nil {
		return nil
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if component == nil {
		component = emptyComponent{}
	}
	var buf bytes.Buffer
	if err := component.Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveFlash(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, policy requestmeta.SchemePolicy) *webtemplates.FlashNotice {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.Sprintf(notice.Key))
	if message == "" {
		message = strings.TrimSpace(notice.Key)
	}
	if message == "" {
		return nil
	}
	return &webtemplates.FlashNotice{Kind: string(notice.Kind), Message: message}
}
