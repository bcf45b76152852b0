package onboarding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/preferences"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/nestmap/internal/services/web/platform/flash"
	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

type fakeGateway struct {
	order   []mapview.Category
	loadErr error
	saveErr error
	saved   map[string][]mapview.Category
}

func (f *fakeGateway) Load(context.Context, string) ([]mapview.Category, error) {
	return f.order, f.loadErr
}

func (f *fakeGateway) Save(_ context.Context, visitorID string, order []mapview.Category) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = map[string][]mapview.Category{}
	}
	f.saved[visitorID] = order
	return nil
}

func mount(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	m, err := New(opts...).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if m.Prefix != routepath.OnboardingPrefix {
		t.Fatalf("prefix = %q, want %q", m.Prefix, routepath.OnboardingPrefix)
	}
	return m.Handler
}

func postRanking(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, routepath.Onboarding, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func fullRanking() url.Values {
	return url.Values{"rank_1": {"2"}, "rank_2": {"5"}, "rank_3": {"1"}, "rank_4": {"3"}, "rank_5": {"4"}}
}

func TestModuleHealthyTracksGateway(t *testing.T) {
	t.Parallel()

	if New().Healthy() {
		t.Fatal("module without gateway must be unhealthy")
	}
	if !New(WithGateway(&fakeGateway{})).Healthy() {
		t.Fatal("module with gateway must be healthy")
	}
	if got := New().ID(); got != "onboarding" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestGetRendersWizardWithStoredOrder(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{order: []mapview.Category{mapview.Safety}}
	h := mount(t, WithGateway(gateway), WithBase(modulehandler.NewTestBase("visitor-1")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Onboarding, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, marker := range []string{`id="onboarding-page"`, `id="ranking-form"`, `action="/onboarding/"`, `name="rank_3"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q", marker)
		}
	}
	// Safety (3) is ranked first, so its select preselects position 1.
	safety := body[strings.Index(body, `name="rank_3"`):]
	if !strings.HasPrefix(safety[strings.Index(safety, "<option"):], `<option value="1" selected>`) {
		t.Fatalf("safety rank not preselected: %q", safety[:200])
	}
}

func TestGetFallsBackToCanonicalOrderWhenBackendFails(t *testing.T) {
	t.Parallel()

	h := mount(t, WithBase(modulehandler.NewTestBase("visitor-1")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Onboarding, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestPostAssignsVisitorAndRedirectsToMap(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	var notified []mapview.Category
	h := mount(t,
		WithGateway(gateway),
		WithBase(modulehandler.NewTestBase("")),
		WithVisitorIDs(func() string { return "new-visitor" }),
		WithOnSaved(func(_ *http.Request, visitorID string, order []mapview.Category) {
			if visitorID != "new-visitor" {
				t.Errorf("hook visitor = %q", visitorID)
			}
			notified = order
		}),
	)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postRanking(fullRanking()))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != routepath.AppMap {
		t.Fatalf("Location = %q, want %q", got, routepath.AppMap)
	}
	want := []mapview.Category{mapview.Safety, mapview.Noise, mapview.Accessibility, mapview.Convenience, mapview.Environment}
	if diff := cmp.Diff(want, gateway.saved["new-visitor"]); diff != "" {
		t.Fatalf("saved order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, notified); diff != "" {
		t.Fatalf("hook order mismatch (-want +got):\n%s", diff)
	}

	cookies := map[string]string{}
	for _, c := range rr.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	if cookies[sessioncookie.VisitorName] != "new-visitor" {
		t.Fatalf("visitor cookie = %q", cookies[sessioncookie.VisitorName])
	}
	if cookies[flashnotice.CookieName] == "" {
		t.Fatal("expected flash cookie")
	}
}

func TestPostKeepsExistingVisitor(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	h := mount(t,
		WithGateway(gateway),
		WithBase(modulehandler.NewTestBase("visitor-1")),
		WithVisitorIDs(func() string {
			t.Error("new id must not be generated")
			return "unused"
		}),
	)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postRanking(url.Values{"order": {"1,2,3,4,5"}}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if _, ok := gateway.saved["visitor-1"]; !ok {
		t.Fatalf("saved = %v", gateway.saved)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.VisitorName {
			t.Fatalf("unexpected visitor cookie %q", c.Value)
		}
	}
}

func TestPostHTMXUsesHXRedirect(t *testing.T) {
	t.Parallel()

	h := mount(t, WithGateway(&fakeGateway{}), WithBase(modulehandler.NewTestBase("visitor-1")))
	req := postRanking(fullRanking())
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("HX-Redirect"); got != routepath.AppMap {
		t.Fatalf("HX-Redirect = %q, want %q", got, routepath.AppMap)
	}
}

func TestPostRejectsIncompleteRanking(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	h := mount(t, WithGateway(gateway), WithBase(modulehandler.NewTestBase("")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postRanking(url.Values{"rank_1": {"1"}, "rank_2": {"1"}}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Give every category a different rank.") {
		t.Fatalf("body missing localized error: %q", rr.Body.String())
	}
	if len(gateway.saved) != 0 {
		t.Fatalf("saved = %v, want nothing", gateway.saved)
	}
}

func TestPostBackendFailureRendersError(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{saveErr: apperrors.E(apperrors.KindUnavailable, "down")}
	h := mount(t, WithGateway(gateway), WithBase(modulehandler.NewTestBase("visitor-1")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postRanking(fullRanking()))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestUnavailableGatewayFailsSave(t *testing.T) {
	t.Parallel()

	h := mount(t, WithGateway(preferences.Unavailable()), WithBase(modulehandler.NewTestBase("")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postRanking(fullRanking()))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestOnboardingRoutes(t *testing.T) {
	t.Parallel()

	h := mount(t, WithGateway(&fakeGateway{}))
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodDelete, routepath.Onboarding, http.StatusMethodNotAllowed},
		{http.MethodGet, routepath.Onboarding + "extra", http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.want {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}
