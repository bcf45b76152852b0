// Package explore serves the map exploration view: category overlays around
// a selected property.
package explore

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/platform/logging"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	"go.uber.org/zap"
)

// Option configures a map module.
type Option func(*Module)

// WithViews sets the open view store.
func WithViews(views ViewStore) Option {
	return func(m *Module) { m.views = views }
}

// WithProperties sets the property gateway.
func WithProperties(g PropertyGateway) Option {
	return func(m *Module) { m.properties = g }
}

// WithPreferences sets the gateway new views read their order from.
func WithPreferences(g preferences.Gateway) Option {
	return func(m *Module) { m.preferences = g }
}

// WithBase sets the handler base.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithLogger sets the module logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Module) { m.logger = logger }
}

// Module provides map routes.
type Module struct {
	views       ViewStore
	properties  PropertyGateway
	preferences preferences.Gateway
	base        modulehandler.Base
	logger      *zap.Logger
}

// New returns a map module.
func New(opts ...Option) Module {
	m := Module{}
	for _, opt := range opts {
		opt(&m)
	}
	if m.properties == nil {
		m.properties = unavailableGateway{}
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "map" }

// Healthy reports whether views can be opened and properties loaded.
func (m Module) Healthy() bool {
	if m.views == nil {
		return false
	}
	_, unavailable := m.properties.(unavailableGateway)
	return !unavailable
}

// PreferencesSaved updates the visitor's open view with a new order so the
// next mode switch uses it.
func (m Module) PreferencesSaved(r *http.Request, _ string, order []mapview.Category) {
	if m.views == nil {
		return
	}
	viewID, ok := sessioncookie.ReadView(r)
	if !ok {
		return
	}
	if view, ok := m.views.Get(viewID); ok {
		view.SetPreferred(order)
	}
}

// Mount wires map route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{
		Base:        m.base,
		views:       m.views,
		properties:  m.properties,
		preferences: m.preferences,
		logger:      logging.OrNop(m.logger),
	})
	return module.Mount{Prefix: routepath.MapPrefix, Handler: mux}, nil
}
