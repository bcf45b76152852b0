package app

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	RequestSchemePolicy requestmeta.SchemePolicy
	VisitorKnown        func(*http.Request) bool
}

// BuildRootHandler composes a root mux using the configured module groups.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	return Compose(ComposeInput{
		VisitorKnown:        cfg.VisitorKnown,
		PublicModules:       cfg.PublicModules,
		ProtectedModules:    cfg.ProtectedModules,
		RequestSchemePolicy: cfg.RequestSchemePolicy,
	})
}
