// Package i18n resolves request languages and localizers for web handlers.
package i18n

import (
	"net/http"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/nestmap/internal/platform/i18n"
	"github.com/louisbranch/nestmap/internal/platform/i18n/catalog"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language choice.
	LangCookieName = "nestmap_lang"

	langCookieMaxAge = 365 * 24 * time.Hour
)

// Localizer exposes translated formatting used by templates and handlers.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResolveTag picks the request language: explicit resolver first, then the
// lang query parameter, the language cookie, and Accept-Language.
func ResolveTag(r *http.Request, resolveLanguage func(*http.Request) string) language.Tag {
	tag, _ := resolveTag(r, resolveLanguage)
	return tag
}

func resolveTag(r *http.Request, resolveLanguage func(*http.Request) string) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if resolveLanguage != nil {
		if tag, ok := platformi18n.ParseTag(resolveLanguage(r)); ok {
			return tag, false
		}
	}
	if r.URL != nil {
		if tag, ok := platformi18n.ParseTag(r.URL.Query().Get(LangParam)); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// ResolveLocalizer returns a printer and language string for the request.
// A language chosen through the query parameter is remembered in a cookie.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, resolveLanguage func(*http.Request) string) (*message.Printer, string) {
	tag, persist := resolveTag(r, resolveLanguage)
	if persist && w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     LangCookieName,
			Value:    tag.String(),
			Path:     "/",
			MaxAge:   int(langCookieMaxAge / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return Printer(tag), tag.String()
}

// Printer returns a message printer backed by the embedded catalogs.
func Printer(tag language.Tag) *message.Printer {
	_ = catalog.Default()
	return message.NewPrinter(tag)
}

// LocalizeError returns the translated message of a typed error, or its raw
// text.
func LocalizeError(loc Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			return loc.Sprintf(key)
		}
	}
	return strings.TrimSpace(err.Error())
}
