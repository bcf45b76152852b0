package explore

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppMap+"{$}", h.handlePage)
	mux.HandleFunc(routepath.AppMap+"{$}", httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppMapTogglePattern, h.handleToggle)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppMapSelect, h.handleSelect)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppMapMode, h.handleMode)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppMapNoticeDismiss, h.handleDismissNotice)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppMapOverlays, h.handleOverlays)
	mux.HandleFunc(routepath.MapRestPattern, h.handleNotFound)
}
