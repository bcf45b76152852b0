package public

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

// HealthFunc reports per-module availability for the health endpoint.
type HealthFunc func() map[string]bool

// Option configures a public module.
type Option func(*Module)

// WithBase sets the handler base.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithHealth sets the module availability source of the health endpoint.
func WithHealth(fn HealthFunc) Option {
	return func(m *Module) { m.health = fn }
}

// Module provides the home page, the health endpoint, and the fallback
// not-found page.
type Module struct {
	base   modulehandler.Base
	health HealthFunc
}

// New returns a public module configured by opts.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public route handlers under the root prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.base, m.health))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
