package listings

import (
	"context"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
)

// Gateway loads listing data for the listings module.
type Gateway interface {
	SearchProperties(ctx context.Context, q backend.SearchQuery) (backend.SearchResult, error)
	GetProperty(ctx context.Context, propertyID string) (mapview.Property, error)
}
