package explore

import (
	"context"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

// PropertyGateway loads the properties a map view can focus on.
type PropertyGateway interface {
	GetProperty(ctx context.Context, propertyID string) (mapview.Property, error)
	SearchProperties(ctx context.Context, q backend.SearchQuery) (backend.SearchResult, error)
}

// ViewStore owns the open map views.
type ViewStore interface {
	Open(preferred []mapview.Category) *mapview.View
	Get(id string) (*mapview.View, bool)
}

type unavailableGateway struct{}

func (unavailableGateway) GetProperty(context.Context, string) (mapview.Property, error) {
	return mapview.Property{}, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "map backend is not configured")
}

func (unavailableGateway) SearchProperties(context.Context, backend.SearchQuery) (backend.SearchResult, error) {
	return backend.SearchResult{}, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "map backend is not configured")
}
