package explore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

type fakeProperties struct {
	properties map[string]mapview.Property
}

func (f fakeProperties) GetProperty(_ context.Context, id string) (mapview.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return mapview.Property{}, apperrors.E(apperrors.KindNotFound, "missing")
	}
	return p, nil
}

func (f fakeProperties) SearchProperties(context.Context, backend.SearchQuery) (backend.SearchResult, error) {
	var out backend.SearchResult
	for _, id := range []string{"p1", "p2"} {
		if p, ok := f.properties[id]; ok {
			out.Properties = append(out.Properties, p)
		}
	}
	return out, nil
}

type fakePreferences struct {
	order []mapview.Category
}

func (f fakePreferences) Load(context.Context, string) ([]mapview.Category, error) {
	return f.order, nil
}

func (fakePreferences) Save(context.Context, string, []mapview.Category) error { return nil }

func testProperties() fakeProperties {
	return fakeProperties{properties: map[string]mapview.Property{
		"p1": {ID: "p1", Title: "Sunny Loft", Address: "1 Main St", Scores: map[mapview.Category]float64{mapview.Noise: 6.5}},
		"p2": {ID: "p2", Title: "Garden Flat", Address: "2 Side St"},
	}}
}

func noiseFetcher() mapview.Fetcher {
	return mapview.FetcherFunc(func(_ context.Context, c mapview.Category, p mapview.Property) ([]mapview.Feature, error) {
		return []mapview.Feature{{ID: p.ID + "-" + c.String(), Kind: c.String()}}, nil
	})
}

type harness struct {
	t        *testing.T
	registry *mapview.Registry
	module   Module
	handler  http.Handler
	viewID   string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	registry := mapview.NewRegistry(mapview.RegistryOptions{
		View:  mapview.Options{Fetcher: noiseFetcher()},
		NewID: func() string { return "view-1" },
	})
	t.Cleanup(registry.CloseAll)
	base := []Option{
		WithViews(registry),
		WithProperties(testProperties()),
		WithPreferences(fakePreferences{order: []mapview.Category{mapview.Safety, mapview.Noise}}),
		WithBase(modulehandler.NewTestBase("visitor-1")),
	}
	m := New(append(base, opts...)...)
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.MapPrefix {
		t.Fatalf("prefix = %q", mount.Prefix)
	}
	return &harness{t: t, registry: registry, module: m, handler: mount.Handler}
}

func (h *harness) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if h.viewID != "" {
		req.AddCookie(&http.Cookie{Name: sessioncookie.ViewName, Value: h.viewID})
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.ViewName {
			h.viewID = c.Value
		}
	}
	return rr
}

func (h *harness) snapshot() mapview.Snapshot {
	h.t.Helper()
	view, ok := h.registry.Get(h.viewID)
	if !ok {
		h.t.Fatalf("view %q not open", h.viewID)
	}
	return view.Snapshot()
}

func TestModuleHealthy(t *testing.T) {
	t.Parallel()

	if New().Healthy() {
		t.Fatal("module without views must be unhealthy")
	}
	h := newHarness(t)
	if !h.module.Healthy() {
		t.Fatal("configured module must be healthy")
	}
	if got := h.module.ID(); got != "map" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestPageOpensViewAndSetsCookie(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rr := h.do(http.MethodGet, routepath.AppMap, nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if h.viewID != "view-1" {
		t.Fatalf("view cookie = %q, want view-1", h.viewID)
	}
	body := rr.Body.String()
	for _, marker := range []string{`id="map-page"`, `data-view-id="view-1"`, `data-map-mode="list"`, `data-panel-category="noise"`, `id="map-candidates"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q: %q", marker, body)
		}
	}
	if h.registry.Len() != 1 {
		t.Fatalf("open views = %d, want 1", h.registry.Len())
	}

	// A second visit reuses the view.
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	if h.registry.Len() != 1 {
		t.Fatalf("open views = %d, want 1", h.registry.Len())
	}
}

func TestToggleRendersFragmentForHTMX(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	rr := h.do(http.MethodPost, routepath.AppMapToggle("safety"), url.Values{}, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<html") {
		t.Fatal("fragment must not include the layout")
	}
	if !strings.Contains(body, `data-panel-category="safety" data-panel-active="true"`) {
		t.Fatalf("safety panel not active: %q", body)
	}
	if diff := cmp.Diff([]mapview.Category{mapview.Safety}, h.snapshot().Active); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleRedirectsWithoutHTMX(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	rr := h.do(http.MethodPost, routepath.AppMapToggle("noise"), url.Values{}, false)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != routepath.AppMap {
		t.Fatalf("Location = %q", got)
	}
}

func TestFourthToggleShowsNoticeUntilDismissed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	for _, c := range []string{"noise", "safety", "environment"} {
		h.do(http.MethodPost, routepath.AppMapToggle(c), url.Values{}, true)
	}
	rr := h.do(http.MethodPost, routepath.AppMapToggle("convenience"), url.Values{}, true)
	if !strings.Contains(rr.Body.String(), `id="map-toast"`) {
		t.Fatalf("body missing toast: %q", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "You can show up to 3 modules at once.") {
		t.Fatalf("body missing localized notice: %q", rr.Body.String())
	}
	if diff := cmp.Diff([]mapview.Category{mapview.Environment, mapview.Safety, mapview.Noise}, h.snapshot().Active); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}

	rr = h.do(http.MethodPost, routepath.AppMapNoticeDismiss, url.Values{}, true)
	if strings.Contains(rr.Body.String(), `id="map-toast"`) {
		t.Fatal("toast must be gone after dismissal")
	}
}

func TestSelectLoadsOverlaysForActiveCategories(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	h.do(http.MethodPost, routepath.AppMapToggle("noise"), url.Values{}, true)
	rr := h.do(http.MethodPost, routepath.AppMapSelect, url.Values{"property_id": {"p1"}}, true)
	if !strings.Contains(rr.Body.String(), `id="map-selected"`) {
		t.Fatalf("body missing selection: %q", rr.Body.String())
	}

	rr = h.do(http.MethodGet, routepath.AppMapOverlays, nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("overlays status = %d, want 200", rr.Code)
	}
	var snap mapview.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Selected == nil || snap.Selected.ID != "p1" {
		t.Fatalf("selected = %+v", snap.Selected)
	}
	if len(snap.Overlays) != 1 {
		t.Fatalf("overlays = %+v, want one", snap.Overlays)
	}
	overlay := snap.Overlays[0]
	if overlay.Category != mapview.Noise || overlay.Status != mapview.OverlayReady || len(overlay.Features) != 1 {
		t.Fatalf("overlay = %+v", overlay)
	}
	if overlay.Features[0].ID != "p1-noise" {
		t.Fatalf("feature id = %q", overlay.Features[0].ID)
	}
}

func TestSelectEmptyClearsSelection(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	h.do(http.MethodPost, routepath.AppMapSelect, url.Values{"property_id": {"p2"}}, true)
	h.do(http.MethodPost, routepath.AppMapSelect, url.Values{"property_id": {""}}, true)
	if h.snapshot().Selected != nil {
		t.Fatal("selection must be cleared")
	}
}

func TestSelectUnknownPropertyIsNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	rr := h.do(http.MethodPost, routepath.AppMapSelect, url.Values{"property_id": {"missing"}}, false)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestModeSwitchUsesPreferences(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)

	h.do(http.MethodPost, routepath.AppMapMode, url.Values{"mode": {"map"}}, true)
	snap := h.snapshot()
	if snap.Mode != mapview.ModeMap {
		t.Fatalf("mode = %q, want map", snap.Mode)
	}
	if diff := cmp.Diff([]mapview.Category{mapview.Safety}, snap.Active); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}

	h.do(http.MethodPost, routepath.AppMapMode, url.Values{"mode": {"list"}}, true)
	if diff := cmp.Diff([]mapview.Category{mapview.Safety, mapview.Noise, mapview.Environment}, h.snapshot().Active); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}
}

func TestPreferencesSavedUpdatesOpenView(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)

	req := httptest.NewRequest(http.MethodPost, routepath.AppProfile, nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.ViewName, Value: h.viewID})
	h.module.PreferencesSaved(req, "visitor-1", []mapview.Category{mapview.Convenience})

	h.do(http.MethodPost, routepath.AppMapMode, url.Values{"mode": {"map"}}, true)
	if diff := cmp.Diff([]mapview.Category{mapview.Convenience}, h.snapshot().Active); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}
}

func TestExpiredViewCookieOpensNewView(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.viewID = "gone"
	rr := h.do(http.MethodGet, routepath.AppMap, nil, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if h.viewID != "view-1" {
		t.Fatalf("view cookie = %q, want view-1", h.viewID)
	}
}

func TestInvalidInputs(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.do(http.MethodGet, routepath.AppMap, nil, false)
	if rr := h.do(http.MethodPost, routepath.AppMapToggle("parking"), url.Values{}, false); rr.Code != http.StatusBadRequest {
		t.Fatalf("toggle status = %d, want 400", rr.Code)
	}
	if rr := h.do(http.MethodPost, routepath.AppMapMode, url.Values{"mode": {"satellite"}}, false); rr.Code != http.StatusBadRequest {
		t.Fatalf("mode status = %d, want 400", rr.Code)
	}
	if rr := h.do(http.MethodGet, routepath.MapPrefix+"nowhere", nil, false); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want 404", rr.Code)
	}
}

func TestWithoutViewsIsUnavailable(t *testing.T) {
	t.Parallel()

	mount, err := New(WithBase(modulehandler.NewTestBase("visitor-1"))).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.AppMap, nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}
