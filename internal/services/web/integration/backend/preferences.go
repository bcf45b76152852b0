package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

type preferencesPayload struct {
	Order []int `json:"order"`
}

func preferencesPath(visitorID string) string {
	return "/v1/visitors/" + url.PathEscape(visitorID) + "/preferences"
}

// GetPreferences loads a visitor's category order. A visitor the backend has
// never seen is reported as not found.
func (c *Client) GetPreferences(ctx context.Context, visitorID string) ([]mapview.Category, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return nil, apperrors.E(apperrors.KindInvalidInput, "visitor id is required")
	}
	var payload preferencesPayload
	if err := c.do(ctx, "GetPreferences", http.MethodGet, preferencesPath(visitorID), nil, nil, &payload); err != nil {
		return nil, err
	}
	return mapview.CategoriesFromNumbers(payload.Order), nil
}

// PutPreferences stores a visitor's category order.
func (c *Client) PutPreferences(ctx context.Context, visitorID string, order []mapview.Category) error {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return apperrors.E(apperrors.KindInvalidInput, "visitor id is required")
	}
	payload := preferencesPayload{Order: mapview.Numbers(mapview.Normalize(order))}
	return c.do(ctx, "PutPreferences", http.MethodPut, preferencesPath(visitorID), nil, payload, nil)
}
