package onboarding

import (
	"net/http"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/nestmap/internal/services/web/platform/flash"
	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/nestmap/internal/services/web/platform/i18n"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	gateway preferences.Gateway
	newID   func() string
	onSaved SavedFunc
}

func (h handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	order, err := preferences.LoadOrDefault(r.Context(), h.gateway, h.ResolveRequestVisitorID(r))
	if err != nil {
		// A returning visitor can still re-rank while the backend is down.
		order = mapview.Categories()
	}
	h.renderPage(w, r, http.StatusOK, order, "")
}

func (h handlers) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.preferences.invalid", "failed to parse onboarding form"))
		return
	}
	order, err := preferences.ParseRankingForm(r.PostForm)
	if err != nil {
		loc, _ := h.PageLocalizer(w, r)
		h.renderPage(w, r, http.StatusBadRequest, mapview.Categories(), webi18n.LocalizeError(loc, err))
		return
	}

	visitorID := h.ResolveRequestVisitorID(r)
	newVisitor := visitorID == ""
	if newVisitor {
		visitorID = h.newID()
	}
	if err := h.gateway.Save(r.Context(), visitorID, order); err != nil {
		h.WriteError(w, r, err)
		return
	}
	if newVisitor {
		sessioncookie.WriteVisitor(w, r, visitorID, h.RequestSchemePolicy())
	}
	if h.onSaved != nil {
		h.onSaved(r, visitorID, order)
	}
	flashnotice.Write(w, r, flashnotice.NoticeSuccess("onboarding.notice.saved"), h.RequestSchemePolicy())
	httpx.WriteRedirect(w, r, routepath.AppMap)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, order []mapview.Category, formError string) {
	loc, _ := h.PageLocalizer(w, r)
	form := preferences.Form(routepath.Onboarding, order, "onboarding.submit", loc)
	form.Error = formError
	h.WritePage(w, r, webtemplates.T(loc, "onboarding.title"), status, webtemplates.OnboardingPage(form, loc))
}
