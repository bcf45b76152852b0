package listings

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppListings+"{$}", h.handleSearch)
	mux.HandleFunc(routepath.AppListings+"{$}", httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(http.MethodGet+" "+routepath.AppListingPattern, h.handleDetail)
	mux.HandleFunc(routepath.AppListingPattern, httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(routepath.ListingsRestPattern, h.handleNotFound)
}
