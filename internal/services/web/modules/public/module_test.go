package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/nestmap/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/nestmap/internal/services/web/routepath"
)

func serve(t *testing.T, m Module, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.Root {
		t.Fatalf("prefix = %q, want %q", mount.Prefix, routepath.Root)
	}
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestModuleIDReturnsPublic(t *testing.T) {
	t.Parallel()

	if got := New().ID(); got != "public" {
		t.Fatalf("ID() = %q, want %q", got, "public")
	}
}

func TestHomeLinksNewVisitorsToOnboarding(t *testing.T) {
	t.Parallel()

	rr := serve(t, New(WithBase(modulehandler.NewTestBase(""))), http.MethodGet, routepath.Root)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, marker := range []string{`id="home-page"`, `href="/onboarding/"`, `href="/app/listings/"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing marker %q: %q", marker, body)
		}
	}
}

func TestHomeLinksReturningVisitorsToMap(t *testing.T) {
	t.Parallel()

	rr := serve(t, New(WithBase(modulehandler.NewTestBase("visitor-1"))), http.MethodGet, routepath.Root)
	if !strings.Contains(rr.Body.String(), `href="/app/map/" class="button"`) {
		t.Fatalf("body missing map call to action: %q", rr.Body.String())
	}
}

func TestHeadRequestsServeReads(t *testing.T) {
	t.Parallel()

	for _, path := range []string{routepath.Root, routepath.Health} {
		rr := serve(t, New(), http.MethodHead, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("HEAD %q status = %d, want 200", path, rr.Code)
		}
	}
}

func TestHealthReportsDegradedModules(t *testing.T) {
	t.Parallel()

	m := New(WithHealth(func() map[string]bool {
		return map[string]bool{"listings": true, "map": false, "compare": false}
	}))
	rr := serve(t, m, http.MethodGet, routepath.Health)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body healthBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" {
		t.Fatalf("status = %q, want degraded", body.Status)
	}
	if strings.Join(body.Degraded, ",") != "compare,map" {
		t.Fatalf("degraded = %v", body.Degraded)
	}
}

func TestHealthWithoutReporterIsOK(t *testing.T) {
	t.Parallel()

	rr := serve(t, New(), http.MethodGet, routepath.Health)
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	t.Parallel()

	rr := serve(t, New(), http.MethodGet, "/nowhere")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `id="app-error-state"`) {
		t.Fatalf("body missing error state: %q", rr.Body.String())
	}
}
