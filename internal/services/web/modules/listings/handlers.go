package listings

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/nestmap/internal/services/web/platform/i18n"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	"github.com/louisbranch/nestmap/internal/services/web/propertyview"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/nestmap/internal/services/web/templates"
	"go.uber.org/zap"
)

type handlers struct {
	modulehandler.Base
	gateway     Gateway
	preferences preferences.Gateway
	logger      *zap.Logger
}

// searchForm is the parsed search query string.
type searchForm struct {
	text     string
	minPrice string
	maxPrice string
	query    backend.SearchQuery
}

func parseSearchForm(values url.Values) (searchForm, error) {
	form := searchForm{
		text:     strings.TrimSpace(values.Get("q")),
		minPrice: strings.TrimSpace(values.Get("min_price")),
		maxPrice: strings.TrimSpace(values.Get("max_price")),
	}
	form.query.Text = form.text
	var err error
	if form.query.MinPrice, err = parsePrice(form.minPrice); err != nil {
		return form, err
	}
	if form.query.MaxPrice, err = parsePrice(form.maxPrice); err != nil {
		return form, err
	}
	if form.query.MinPrice > 0 && form.query.MaxPrice > 0 && form.query.MinPrice > form.query.MaxPrice {
		return form, invalidPrice()
	}
	if page, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && page > 1 {
		form.query.Page = page
	}
	return form, nil
}

func parsePrice(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || price < 0 {
		return 0, invalidPrice()
	}
	return price, nil
}

func invalidPrice() error {
	return apperrors.EK(apperrors.KindInvalidInput, "error.listings.invalid_price", "invalid price filter")
}

// nextPageURL keeps the current filters and moves to page.
func (f searchForm) nextPageURL(page int) string {
	if page <= 0 {
		return ""
	}
	values := url.Values{}
	if f.text != "" {
		values.Set("q", f.text)
	}
	if f.minPrice != "" {
		values.Set("min_price", f.minPrice)
	}
	if f.maxPrice != "" {
		values.Set("max_price", f.maxPrice)
	}
	values.Set("page", strconv.Itoa(page))
	return routepath.AppListings + "?" + values.Encode()
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	form, err := parseSearchForm(r.URL.Query())
	view := webtemplates.ListingsView{Query: form.text, MinPrice: form.minPrice, MaxPrice: form.maxPrice}
	if err != nil {
		view.Error = webi18n.LocalizeError(loc, err)
		h.WritePage(w, r, webtemplates.T(loc, "listings.title"), http.StatusBadRequest, webtemplates.ListingsPage(view, loc))
		return
	}

	result, err := h.gateway.SearchProperties(r.Context(), form.query)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	order := h.scoreOrder(r)
	for _, p := range result.Properties {
		view.Results = append(view.Results, propertyview.Card(p, order, loc))
	}
	view.NextPageURL = form.nextPageURL(result.NextPage)
	h.WritePage(w, r, webtemplates.T(loc, "listings.title"), http.StatusOK, webtemplates.ListingsPage(view, loc))
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	propertyID := strings.TrimSpace(r.PathValue("propertyID"))
	if propertyID == "" {
		h.WriteNotFound(w, r)
		return
	}
	property, err := h.gateway.GetProperty(r.Context(), propertyID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	card := propertyview.Card(property, h.scoreOrder(r), loc)
	h.WritePage(w, r, property.Title, http.StatusOK, webtemplates.ListingDetailPage(card, loc))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

// scoreOrder returns the visitor's preference order. Listings stay readable
// when preferences cannot be loaded, so failures fall back to canonical order.
func (h handlers) scoreOrder(r *http.Request) []mapview.Category {
	order, err := preferences.LoadOrDefault(r.Context(), h.preferences, h.ResolveRequestVisitorID(r))
	if err != nil {
		h.logger.Warn("load visitor preferences", zap.String("path", r.URL.Path), zap.Error(err))
		return mapview.Categories()
	}
	return order
}

