// Package onboarding serves the first-visit wizard that records a visitor's
// category ranking.
package onboarding

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// SavedFunc is notified after a visitor's ranking is stored.
type SavedFunc = preferences.SavedFunc

// Option configures an onboarding module.
type Option func(*Module)

// WithGateway sets the preferences gateway.
func WithGateway(g preferences.Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithBase sets the handler base.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithVisitorIDs overrides how new visitor ids are generated.
func WithVisitorIDs(newID func() string) Option {
	return func(m *Module) { m.newID = newID }
}

// WithOnSaved registers a callback run after a successful save.
func WithOnSaved(fn SavedFunc) Option {
	return func(m *Module) { m.onSaved = fn }
}

// Module provides the onboarding routes.
type Module struct {
	gateway preferences.Gateway
	base    modulehandler.Base
	newID   func() string
	onSaved SavedFunc
}

// New returns an onboarding module. Without a gateway it starts degraded.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "onboarding" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	return preferences.IsAvailable(m.gateway)
}

// Mount wires onboarding route handlers.
func (m Module) Mount() (module.Mount, error) {
	gateway := m.gateway
	if gateway == nil {
		gateway = preferences.Unavailable()
	}
	newID := m.newID
	if newID == nil {
		newID = uuid.NewString
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{Base: m.base, gateway: gateway, newID: newID, onSaved: m.onSaved})
	return module.Mount{Prefix: routepath.OnboardingPrefix, Handler: mux}, nil
}
