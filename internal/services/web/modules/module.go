// Package modules defines web module registry helpers.
package modules

import (
	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/modules/explore"
	"github.com/louisbranch/nestmap/internal/services/web/modules/listings"
	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"go.uber.org/zap"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// ModuleResolvers carries request-scoped resolver functions the server
// derives from cookies and headers.
type ModuleResolvers struct {
	ResolveVisitorID    module.ResolveVisitorID
	ResolveLanguage     module.ResolveLanguage
	RequestSchemePolicy requestmeta.SchemePolicy
}

// PropertyClient serves property search and detail reads. The listings, map
// and compare modules each narrow it to what they use.
type PropertyClient interface {
	listings.Gateway
}

// Dependencies carries the backend clients and shared state required to
// compose the web module registry. Nil clients leave their modules degraded.
type Dependencies struct {
	Properties  PropertyClient
	Preferences preferences.BackendClient
	Views       explore.ViewStore
	Logger      *zap.Logger
}
