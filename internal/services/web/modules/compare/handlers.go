package compare

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type handlers struct {
	modulehandler.Base
	gateway     Gateway
	preferences preferences.Gateway
	logger      *zap.Logger
}

func (h handlers) handleCompare(w http.ResponseWriter, r *http.Request) {
	ids, err := parseSelection(r.URL.Query())
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	properties := make([]mapview.Property, len(ids))
	group, ctx := errgroup.WithContext(r.Context())
	for i, id := range ids {
		group.Go(func() error {
			p, err := h.gateway.GetProperty(ctx, id)
			if err != nil {
				return err
			}
			properties[i] = p
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		h.WriteError(w, r, err)
		return
	}

	order, err := preferences.LoadOrDefault(r.Context(), h.preferences, h.ResolveRequestVisitorID(r))
	if err != nil {
		h.logger.Warn("compare with canonical order", zap.Error(err))
		order = mapview.Categories()
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "compare.title"), http.StatusOK, webtemplates.ComparePage(buildReport(properties, order, loc), loc))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
