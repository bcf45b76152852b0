package modules

import (
	"sort"

	"github.com/louisbranch/nestmap/internal/services/web/module"
	"github.com/louisbranch/nestmap/internal/services/web/modules/compare"
	"github.com/louisbranch/nestmap/internal/services/web/modules/explore"
	"github.com/louisbranch/nestmap/internal/services/web/modules/listings"
	"github.com/louisbranch/nestmap/internal/services/web/modules/onboarding"
	"github.com/louisbranch/nestmap/internal/services/web/modules/profile"
	"github.com/louisbranch/nestmap/internal/services/web/modules/public"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
)

// Registry is the composed module set of the web service.
type Registry struct {
	Public    []Module
	Protected []Module
}

// All returns every module, public first.
func (r Registry) All() []Module {
	all := make([]Module, 0, len(r.Public)+len(r.Protected))
	all = append(all, r.Public...)
	return append(all, r.Protected...)
}

// Build composes the public and protected modules. Saving preferences from
// onboarding or the profile refreshes the visitor's open map view.
func Build(deps Dependencies, resolvers ModuleResolvers) Registry {
	base := modulehandler.NewBase(resolvers.ResolveVisitorID, resolvers.ResolveLanguage, resolvers.RequestSchemePolicy)
	prefs := preferences.NewBackendGateway(deps.Preferences)

	mapModule := explore.New(
		explore.WithViews(deps.Views),
		explore.WithProperties(deps.Properties),
		explore.WithPreferences(prefs),
		explore.WithBase(base),
		explore.WithLogger(deps.Logger),
	)

	var registry Registry
	home := public.New(
		public.WithBase(base),
		public.WithHealth(func() map[string]bool { return HealthReport(registry.All()) }),
	)
	registry.Public = []Module{
		home,
		onboarding.New(
			onboarding.WithGateway(prefs),
			onboarding.WithBase(base),
			onboarding.WithOnSaved(mapModule.PreferencesSaved),
		),
	}
	registry.Protected = []Module{
		listings.New(
			listings.WithGateway(deps.Properties),
			listings.WithPreferences(prefs),
			listings.WithBase(base),
			listings.WithLogger(deps.Logger),
		),
		mapModule,
		compare.New(
			compare.WithGateway(deps.Properties),
			compare.WithPreferences(prefs),
			compare.WithBase(base),
			compare.WithLogger(deps.Logger),
		),
		profile.New(
			profile.WithGateway(prefs),
			profile.WithBase(base),
			profile.WithOnSaved(mapModule.PreferencesSaved),
		),
	}
	return registry
}

// HealthReport maps the id of every module that reports health to its state.
func HealthReport(mods []Module) map[string]bool {
	report := make(map[string]bool, len(mods))
	for _, m := range mods {
		if reporter, ok := m.(module.HealthReporter); ok {
			report[m.ID()] = reporter.Healthy()
		}
	}
	return report
}

// Degraded lists unhealthy module ids in order.
func Degraded(report map[string]bool) []string {
	var out []string
	for id, healthy := range report {
		if !healthy {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
