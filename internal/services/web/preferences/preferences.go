// Package preferences holds the visitor category-order gateway and the
// ranking form shared by the onboarding, profile, and map modules.
package preferences

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

// Gateway loads and stores a visitor's category preference order.
type Gateway interface {
	Load(ctx context.Context, visitorID string) ([]mapview.Category, error)
	Save(ctx context.Context, visitorID string, order []mapview.Category) error
}

// SavedFunc is notified after a visitor's order has been stored.
type SavedFunc func(r *http.Request, visitorID string, order []mapview.Category)

// BackendClient is the subset of the backend client used here.
type BackendClient interface {
	GetPreferences(ctx context.Context, visitorID string) ([]mapview.Category, error)
	PutPreferences(ctx context.Context, visitorID string, order []mapview.Category) error
}

type backendGateway struct {
	client BackendClient
}

// NewBackendGateway adapts the backend client. A nil client yields the
// unavailable gateway.
func NewBackendGateway(client BackendClient) Gateway {
	if client == nil {
		return unavailableGateway{}
	}
	return backendGateway{client: client}
}

func (g backendGateway) Load(ctx context.Context, visitorID string) ([]mapview.Category, error) {
	return g.client.GetPreferences(ctx, visitorID)
}

func (g backendGateway) Save(ctx context.Context, visitorID string, order []mapview.Category) error {
	return g.client.PutPreferences(ctx, visitorID, order)
}

type unavailableGateway struct{}

func (unavailableGateway) Load(context.Context, string) ([]mapview.Category, error) {
	return nil, apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "preferences backend is not configured")
}

func (unavailableGateway) Save(context.Context, string, []mapview.Category) error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "preferences backend is not configured")
}

// Unavailable returns a gateway that fails every call with KindUnavailable.
func Unavailable() Gateway { return unavailableGateway{} }

// IsAvailable reports whether g can reach a backend.
func IsAvailable(g Gateway) bool {
	if g == nil {
		return false
	}
	_, unavailable := g.(unavailableGateway)
	return !unavailable
}

// LoadOrDefault returns the visitor's full category order: the stored ranking
// followed by any category it leaves out. A visitor without stored
// preferences gets the canonical order; other failures are returned.
func LoadOrDefault(ctx context.Context, g Gateway, visitorID string) ([]mapview.Category, error) {
	if g == nil {
		g = unavailableGateway{}
	}
	if strings.TrimSpace(visitorID) == "" {
		return mapview.Categories(), nil
	}
	order, err := g.Load(ctx, visitorID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return mapview.Categories(), nil
		}
		return nil, err
	}
	return mapview.OrderWith(order), nil
}

// ErrIncompleteRanking reports a ranking that is not a permutation of every
// category.
var ErrIncompleteRanking = errors.New("ranking must order every category exactly once")
