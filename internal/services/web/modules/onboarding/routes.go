package onboarding

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Onboarding+"{$}", h.handleGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.Onboarding+"{$}", h.handlePost)
	mux.HandleFunc(routepath.Onboarding+"{$}", httpx.MethodNotAllowed(http.MethodGet+", "+http.MethodPost))
	mux.HandleFunc(routepath.OnboardingRestPattern, h.handleNotFound)
}
