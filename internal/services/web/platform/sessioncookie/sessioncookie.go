// Package sessioncookie reads and writes the visitor and map view cookies.
//
// Visitors are anonymous: the visitor cookie carries the id the backend
// stores category preferences under, and the view cookie points at the
// visitor's open map view.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
)

const (
	// VisitorName is the cookie carrying the visitor id.
	VisitorName = "nestmap_visitor"
	// ViewName is the cookie carrying the open map view id.
	ViewName = "nestmap_view"

	visitorMaxAge = 365 * 24 * time.Hour
)

// ReadVisitor returns the trimmed visitor id when present.
func ReadVisitor(r *http.Request) (string, bool) {
	return read(r, VisitorName)
}

// WriteVisitor stores the visitor id for a year.
func WriteVisitor(w http.ResponseWriter, r *http.Request, visitorID string, policy requestmeta.SchemePolicy) {
	write(w, r, VisitorName, visitorID, int(visitorMaxAge/time.Second), policy)
}

// ReadView returns the trimmed map view id when present.
func ReadView(r *http.Request) (string, bool) {
	return read(r, ViewName)
}

// WriteView stores the map view id for the browser session.
func WriteView(w http.ResponseWriter, r *http.Request, viewID string, policy requestmeta.SchemePolicy) {
	write(w, r, ViewName, viewID, 0, policy)
}

// ClearView expires the map view cookie.
func ClearView(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	write(w, r, ViewName, "", -1, policy)
}

func read(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	return value, value != ""
}

func write(w http.ResponseWriter, r *http.Request, name, value string, maxAge int, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    strings.TrimSpace(value),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}
