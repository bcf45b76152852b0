package profile

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/nestmap/internal/services/web/platform/flash"
	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/nestmap/internal/services/web/platform/i18n"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	gateway preferences.Gateway
	onSaved preferences.SavedFunc
}

func (h handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	order, err := preferences.LoadOrDefault(r.Context(), h.gateway, h.ResolveRequestVisitorID(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.renderPage(w, r, http.StatusOK, order, "")
}

func (h handlers) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.preferences.invalid", "failed to parse profile form"))
		return
	}
	visitorID := h.ResolveRequestVisitorID(r)
	order, err := preferences.ParseRankingForm(r.PostForm)
	if err != nil {
		current, loadErr := preferences.LoadOrDefault(r.Context(), h.gateway, visitorID)
		if loadErr != nil {
			current = mapview.Categories()
		}
		loc, _ := h.PageLocalizer(w, r)
		h.renderPage(w, r, http.StatusBadRequest, current, webi18n.LocalizeError(loc, err))
		return
	}
	if err := h.gateway.Save(r.Context(), visitorID, order); err != nil {
		h.WriteError(w, r, err)
		return
	}
	if h.onSaved != nil {
		h.onSaved(r, visitorID, order)
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("profile.notice.saved"), h.RequestSchemePolicy())
	httpx.WriteRedirect(w, r, routepath.AppProfile)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, order []mapview.Category, formError string) {
	loc, _ := h.PageLocalizer(w, r)
	form := preferences.Form(routepath.AppProfile, order, "profile.submit", loc)
	form.Error = formError
	page := webtemplates.ProfilePage(preferences.Labels(order, loc), form, loc)
	h.WritePage(w, r, webtemplates.T(loc, "profile.title"), status, page)
}
