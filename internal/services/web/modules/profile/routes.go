package profile

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppProfile+"{$}", h.handleGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppProfile+"{$}", h.handlePost)
	mux.HandleFunc(routepath.AppProfile+"{$}", httpx.MethodNotAllowed(http.MethodGet+", "+http.MethodPost))
	mux.HandleFunc(routepath.ProfileRestPattern, h.handleNotFound)
}
