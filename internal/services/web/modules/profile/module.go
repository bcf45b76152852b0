// Package profile shows the visitor's stored category order and lets them
// re-rank it.
package profile

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// Option configures a profile module.
type Option func(*Module)

// WithGateway sets the preferences gateway.
func WithGateway(g preferences.Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithBase sets the handler base.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithOnSaved registers a callback run after a successful save.
func WithOnSaved(fn preferences.SavedFunc) Option {
	return func(m *Module) { m.onSaved = fn }
}

// Module provides profile routes.
type Module struct {
	gateway preferences.Gateway
	base    modulehandler.Base
	onSaved preferences.SavedFunc
}

// New returns a profile module.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	if m.gateway == nil {
		m.gateway = preferences.Unavailable()
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "profile" }

// Healthy reports whether the profile module has an operational gateway.
func (m Module) Healthy() bool {
	return preferences.IsAvailable(m.gateway)
}

// Mount wires profile route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{Base: m.base, gateway: m.gateway, onSaved: m.onSaved})
	return module.Mount{Prefix: routepath.ProfilePrefix, Handler: mux}, nil
}
