package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	t.Parallel()

	called := ""
	mark := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called += tag
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called += "h"
		w.WriteHeader(http.StatusNoContent)
	}), mark("1"), nil, mark("2"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if called != "12h" {
		t.Fatalf("call order = %q, want %q", called, "12h")
	}
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	t.Parallel()

	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id = %q, response header = %q", seen, rr.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("echoed request id = %q, want req-123", got)
	}
}

func TestRecoverPanicLogsAndReturns500(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	h := RecoverPanic(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/app/map/", nil)
	req.Header.Set(RequestIDHeader, "req-9")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	entries := logs.FilterMessage("panic recovered").All()
	if len(entries) != 1 {
		t.Fatalf("panic log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/app/map/" || fields["request_id"] != "req-9" {
		t.Fatalf("panic log fields = %v", fields)
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	if err := WriteJSON(rr, http.StatusAccepted, map[string]int{"n": 1}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	var payload map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil || payload["n"] != 1 {
		t.Fatalf("payload = %v, err = %v", payload, err)
	}
}

func TestWriteRedirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		method       string
		htmx         bool
		wantStatus   int
		wantLocation string
		wantHX       string
	}{
		{name: "get", method: http.MethodGet, wantStatus: http.StatusFound, wantLocation: "/app/map/"},
		{name: "post", method: http.MethodPost, wantStatus: http.StatusSeeOther, wantLocation: "/app/map/"},
		{name: "htmx", method: http.MethodPost, htmx: true, wantStatus: http.StatusOK, wantHX: "/app/map/"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, "/app/map/mode", nil)
		if tc.htmx {
			req.Header.Set("HX-Request", "true")
		}
		rr := httptest.NewRecorder()
		WriteRedirect(rr, req, "/app/map/")
		if rr.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, rr.Code, tc.wantStatus)
		}
		if got := rr.Header().Get("Location"); got != tc.wantLocation {
			t.Fatalf("%s: Location = %q, want %q", tc.name, got, tc.wantLocation)
		}
		if got := rr.Header().Get("HX-Redirect"); got != tc.wantHX {
			t.Fatalf("%s: HX-Redirect = %q, want %q", tc.name, got, tc.wantHX)
		}
	}
}

func TestMethodNotAllowedSetsAllow(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	MethodNotAllowed(http.MethodPost)(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("status = %d allow = %q", rr.Code, rr.Header().Get("Allow"))
	}
}
