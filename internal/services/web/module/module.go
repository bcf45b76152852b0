// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
)

// ResolveVisitorID resolves the anonymous visitor id for a request, or "".
type ResolveVisitorID func(*http.Request) string

// ResolveLanguage returns the effective request language.
type ResolveLanguage func(*http.Request) string

// RequestResolver exposes the request-scoped state page rendering needs.
type RequestResolver interface {
	ResolveRequestVisitorID(*http.Request) string
	ResolveRequestLanguage(*http.Request) string
	RequestSchemePolicy() requestmeta.SchemePolicy
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is implemented by modules whose availability depends on a
// backend gateway.
type HealthReporter interface {
	Healthy() bool
}
