package public

import (
	"net/http"
	"sort"

	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	health HealthFunc
}

func newHandlers(base modulehandler.Base, health HealthFunc) handlers {
	return handlers{Base: base, health: health}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	visitor := h.ResolveRequestVisitorID(r) != ""
	h.WritePage(w, r, webtemplates.T(loc, "home.title"), http.StatusOK, webtemplates.HomePage(visitor, loc))
}

type healthBody struct {
	Status   string          `json:"status"`
	Degraded []string        `json:"degraded,omitempty"`
	Modules  map[string]bool `json:"modules,omitempty"`
}

// handleHealth always answers 200 while the process serves; modules whose
// backend gateway is missing are listed as degraded.
func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := healthBody{Status: "ok"}
	if h.health != nil {
		body.Modules = h.health()
		for id, healthy := range body.Modules {
			if !healthy {
				body.Degraded = append(body.Degraded, id)
			}
		}
		sort.Strings(body.Degraded)
		if len(body.Degraded) > 0 {
			body.Status = "degraded"
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, body)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
