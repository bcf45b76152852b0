// Package listings serves property search and detail pages.
package listings

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/platform/logging"
	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	"go.uber.org/zap"
)

// Option configures a listings module.
type Option func(*Module)

// WithGateway sets the listings gateway.
func WithGateway(g Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithPreferences sets the gateway used to order scores.
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

// Module provides listings routes.
type Module struct {
	gateway     Gateway
	preferences preferences.Gateway
	base        modulehandler.Base
	logger      *zap.Logger
}

// New returns a listings module. Without a gateway it starts degraded.
func New(opts ...Option) Module {
	m := Module{gateway: unavailableGateway{}}
	for _, opt := range opts {
		opt(&m)
	}
	if m.gateway == nil {
		m.gateway = unavailableGateway{}
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "listings" }

// Healthy reports whether the listings module has an operational gateway.
func (m Module) Healthy() bool {
	return isGatewayHealthy(m.gateway)
}

// Mount wires listings route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{Base: m.base, gateway: m.gateway, preferences: m.preferences, logger: logging.OrNop(m.logger)})
	return module.Mount{Prefix: routepath.ListingsPrefix, Handler: mux}, nil
}
