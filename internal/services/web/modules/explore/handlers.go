package explore

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/platform/timeouts"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/propertyview"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
	"go.uber.org/zap"
)

const candidatePageSize = 10

type handlers struct {
	modulehandler.Base
	views       ViewStore
	properties  PropertyGateway
	preferences preferences.Gateway
	logger      *zap.Logger
}

// view returns the request's open view, opening one when the cookie is
// missing or its view has expired.
func (h handlers) view(w http.ResponseWriter, r *http.Request) (*mapview.View, error) {
	if h.views == nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "map views are not configured")
	}
	if viewID, ok := sessioncookie.ReadView(r); ok {
		if view, ok := h.views.Get(viewID); ok {
			return view, nil
		}
	}
	order, err := preferences.LoadOrDefault(r.Context(), h.preferences, h.ResolveRequestVisitorID(r))
	if err != nil {
		h.logger.Warn("open map view with canonical order", zap.Error(err))
		order = mapview.Categories()
	}
	view := h.views.Open(order)
	sessioncookie.WriteView(w, r, view.ID(), h.RequestSchemePolicy())
	return view, nil
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(w, r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	page := h.pageView(r, view.Snapshot(), loc)
	h.WritePage(w, r, webtemplates.T(loc, "map.title"), http.StatusOK, webtemplates.MapPage(page, loc))
}

func (h handlers) handleToggle(w http.ResponseWriter, r *http.Request) {
	category, ok := mapview.ParseCategory(r.PathValue("category"))
	if !ok {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.map.invalid_category", "unknown map category"))
		return
	}
	h.mutate(w, r, func(view *mapview.View) error {
		result := view.Toggle(category)
		h.logger.Debug("toggle map category",
			zap.String("view_id", view.ID()),
			zap.String("category", category.String()),
			zap.Stringer("result", result),
		)
		return nil
	})
}

func (h handlers) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "failed to parse selection form"))
		return
	}
	propertyID := strings.TrimSpace(r.PostForm.Get("property_id"))
	h.mutate(w, r, func(view *mapview.View) error {
		if propertyID == "" {
			view.ClearSelection()
			return nil
		}
		property, err := h.properties.GetProperty(r.Context(), propertyID)
		if err != nil {
			return err
		}
		view.SelectProperty(property)
		return nil
	})
}

func (h handlers) handleMode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "failed to parse mode form"))
		return
	}
	mode, ok := mapview.ParseMode(strings.TrimSpace(r.PostForm.Get("mode")))
	if !ok {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.map.invalid_mode", "unknown map mode"))
		return
	}
	h.mutate(w, r, func(view *mapview.View) error {
		view.SwitchMode(mode)
		return nil
	})
}

func (h handlers) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(view *mapview.View) error {
		view.DismissNotice()
		return nil
	})
}

// handleOverlays waits briefly for in-flight fetches and returns the view
// state as JSON. Slices still loading after the wait are reported as such.
func (h handlers) handleOverlays(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(w, r)
	if err != nil {
		_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.OverlaySettle)
	defer cancel()
	if err := view.Settle(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		if errors.Is(err, mapview.ErrViewClosed) {
			sessioncookie.ClearView(w, r, h.RequestSchemePolicy())
			_ = httpx.WriteJSONError(w, http.StatusGone, err.Error())
			return
		}
		// Client went away.
		return
	}
	if err := httpx.WriteJSON(w, http.StatusOK, view.Snapshot()); err != nil {
		h.logger.Warn("write overlay snapshot", zap.Error(err))
	}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

// mutate applies fn to the request's view, then answers HTMX requests with
// the refreshed fragment and everything else with a redirect to the page.
func (h handlers) mutate(w http.ResponseWriter, r *http.Request, fn func(*mapview.View) error) {
	view, err := h.view(w, r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if err := fn(view); err != nil {
		h.WriteError(w, r, err)
		return
	}
	if !httpx.IsHTMXRequest(r) {
		httpx.WriteRedirect(w, r, routepath.AppMap)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WriteFragment(w, r, webtemplates.MapFragment(h.pageView(r, view.Snapshot(), loc), loc))
}

func (h handlers) pageView(r *http.Request, snap mapview.Snapshot, loc webtemplates.Localizer) webtemplates.MapPageView {
	page := webtemplates.MapPageView{
		ViewID:     snap.ID,
		Mode:       string(snap.Mode),
		Candidates: h.candidates(r, snap.DisplayOrder, loc),
	}
	if snap.Notice != nil {
		page.Notice = webtemplates.T(loc, snap.Notice.Key)
	}
	if snap.Selected != nil {
		card := propertyview.Card(*snap.Selected, snap.DisplayOrder, loc)
		page.Selected = &card
	}

	overlays := make(map[mapview.Category]mapview.Overlay, len(snap.Overlays))
	for _, overlay := range snap.Overlays {
		overlays[overlay.Category] = overlay
	}
	scores := make(map[mapview.Category]mapview.CategoryScore, len(snap.Scores))
	for _, score := range snap.Scores {
		scores[score.Category] = score
	}
	for _, c := range snap.DisplayOrder {
		panel := webtemplates.MapPanel{
			Category:  c.String(),
			Label:     webtemplates.T(loc, c.LabelKey()),
			Status:    string(mapview.OverlayEmpty),
			ToggleURL: routepath.AppMapToggle(c.String()),
		}
		if overlay, ok := overlays[c]; ok {
			panel.Active = true
			panel.Status = string(overlay.Status)
			panel.FeatureCount = len(overlay.Features)
		}
		if score, ok := scores[c]; ok && score.Known {
			panel.Score = propertyview.Score(score.Score, loc)
		}
		page.Panels = append(page.Panels, panel)
	}
	return page
}

// candidates lists the first page of properties to pick from. The map stays
// usable without them.
func (h handlers) candidates(r *http.Request, order []mapview.Category, loc webtemplates.Localizer) []webtemplates.ListingCard {
	result, err := h.properties.SearchProperties(r.Context(), backend.SearchQuery{PageSize: candidatePageSize})
	if err != nil {
		h.logger.Warn("load map candidates", zap.Error(err))
		return nil
	}
	cards := make([]webtemplates.ListingCard, 0, len(result.Properties))
	for _, p := range result.Properties {
		cards = append(cards, propertyview.Card(p, order, loc))
	}
	return cards
}
