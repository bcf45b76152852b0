package compare

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppCompare+"{$}", h.handleCompare)
	mux.HandleFunc(routepath.AppCompare+"{$}", httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(routepath.CompareRestPattern, h.handleNotFound)
}
