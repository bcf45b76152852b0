package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/nestmap/internal/services/web/module"
)

func TestBuildRootHandlerAppliesVisitorGate(t *testing.T) {
	t.Parallel()

	h, err := BuildRootHandler(Config{
		PublicModules: []module.Module{
			stubModule{id: "public", mount: module.Mount{Prefix: "/", Handler: noContent()}},
		},
		ProtectedModules: []module.Module{
			stubModule{id: "profile", mount: module.Mount{Prefix: "/app/profile/", Handler: noContent()}},
		},
	})
	if err != nil {
		t.Fatalf("BuildRootHandler() error = %v", err)
	}

	blocked := httptest.NewRecorder()
	h.ServeHTTP(blocked, httptest.NewRequest(http.MethodGet, "/app/profile/", nil))
	if blocked.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", blocked.Code, http.StatusFound)
	}

	open := httptest.NewRecorder()
	h.ServeHTTP(open, httptest.NewRequest(http.MethodGet, "/", nil))
	if open.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", open.Code, http.StatusNoContent)
	}
}

func TestBuildRootHandlerReportsMountErrors(t *testing.T) {
	t.Parallel()

	_, err := BuildRootHandler(Config{
		PublicModules: []module.Module{stubModule{id: "broken", err: errors.New("boom")}},
	})
	if err == nil || !strings.Contains(err.Error(), `mount module "broken"`) {
		t.Fatalf("error = %v", err)
	}
}
