package listings

import (
	"context"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) SearchProperties(context.Context, backend.SearchQuery) (backend.SearchResult, error) {
	return backend.SearchResult{}, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "listings backend is not configured")
}

func (unavailableGateway) GetProperty(context.Context, string) (mapview.Property, error) {
	return mapview.Property{}, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "listings backend is not configured")
}

func isGatewayHealthy(g Gateway) bool {
	if g == nil {
		return false
	}
	_, unavailable := g.(unavailableGateway)
	return !unavailable
}
