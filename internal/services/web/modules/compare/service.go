package compare

import (
	"context"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

// Gateway loads compared properties.
type Gateway interface {
	GetProperty(ctx context.Context, propertyID string) (mapview.Property, error)
}

type unavailableGateway struct{}

func (unavailableGateway) GetProperty(context.Context, string) (mapview.Property, error) {
	return mapview.Property{}, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "compare backend is not configured")
}
