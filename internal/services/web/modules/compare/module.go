// Package compare serves the side-by-side score report.
package compare

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/platform/logging"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	"go.uber.org/zap"
)

// Option configures a compare module.
type Option func(*Module)

// WithGateway sets the property gateway.
func WithGateway(g Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithPreferences sets the gateway used to order rows.
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

// Module provides compare routes.
type Module struct {
	gateway     Gateway
	preferences preferences.Gateway
	base        modulehandler.Base
	logger      *zap.Logger
}

// New returns a compare module.
func New(opts ...Option) Module {
	m := Module{}
	for _, opt := range opts {
		opt(&m)
	}
	if m.gateway == nil {
		m.gateway = unavailableGateway{}
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "compare" }

// Healthy reports whether the compare module has an operational gateway.
func (m Module) Healthy() bool {
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires compare route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{Base: m.base, gateway: m.gateway, preferences: m.preferences, logger: logging.OrNop(m.logger)})
	return module.Mount{Prefix: routepath.ComparePrefix, Handler: mux}, nil
}
