package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p pointPayload) point() mapview.Point { return mapview.Point{Lat: p.Lat, Lng: p.Lng} }

func toPath(points []pointPayload) []mapview.Point {
	path := make([]mapview.Point, 0, len(points))
	for _, p := range points {
		path = append(path, p.point())
	}
	return path
}

type noisePayload struct {
	Readings []struct {
		ID         string  `json:"id"`
		Lat        float64 `json:"lat"`
		Lng        float64 `json:"lng"`
		Decibels   float64 `json:"decibels"`
		Population float64 `json:"population"`
	} `json:"readings"`
}

type environmentPayload struct {
	Points []struct {
		ID    string  `json:"id"`
		Kind  string  `json:"kind"`
		Name  string  `json:"name"`
		Lat   float64 `json:"lat"`
		Lng   float64 `json:"lng"`
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"points"`
}

type safetyPayload struct {
	Paths []struct {
		ID   string         `json:"id"`
		Name string         `json:"name"`
		Path []pointPayload `json:"path"`
	} `json:"paths"`
	CCTV []struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"cctv"`
}

type accessibilityPayload struct {
	Routes []struct {
		ID    string         `json:"id"`
		Name  string         `json:"name"`
		Mode  string         `json:"mode"`
		Path  []pointPayload `json:"path"`
		Stops []struct {
			ID   string  `json:"id"`
			Name string  `json:"name"`
			Lat  float64 `json:"lat"`
			Lng  float64 `json:"lng"`
		} `json:"stops"`
	} `json:"routes"`
}

type conveniencePayload struct {
	Facilities []struct {
		ID   string  `json:"id"`
		Kind string  `json:"kind"`
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	} `json:"facilities"`
}

// FetchCategoryPayload returns the raw JSON the backend serves for one
// category of a property.
func (c *Client) FetchCategoryPayload(ctx context.Context, category mapview.Category, propertyID string) ([]byte, error) {
	if !category.Valid() {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "error.map.invalid_category", "unknown category")
	}
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return nil, apperrors.E(apperrors.KindInvalidInput, "property id is required")
	}
	var raw json.RawMessage
	path := "/v1/properties/" + url.PathEscape(propertyID) + "/" + category.String()
	if err := c.do(ctx, "FetchCategory", http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchOverlay loads and decodes one category overlay. It satisfies
// mapview.Fetcher.
func (c *Client) FetchOverlay(ctx context.Context, category mapview.Category, property mapview.Property) ([]mapview.Feature, error) {
	raw, err := c.FetchCategoryPayload(ctx, category, property.ID)
	if err != nil {
		return nil, err
	}
	return DecodeFeatures(category, raw)
}

// DecodeFeatures converts a category payload into drawable features.
func DecodeFeatures(category mapview.Category, raw []byte) ([]mapview.Feature, error) {
	var (
		features []mapview.Feature
		err      error
	)
	switch category {
	case mapview.Noise:
		features, err = decodeNoise(raw)
	case mapview.Environment:
		features, err = decodeEnvironment(raw)
	case mapview.Safety:
		features, err = decodeSafety(raw)
	case mapview.Accessibility:
		features, err = decodeAccessibility(raw)
	case mapview.Convenience:
		features, err = decodeConvenience(raw)
	default:
		return nil, apperrors.EK(apperrors.KindInvalidInput, "error.map.invalid_category", "unknown category")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, fmt.Sprintf("decode %s payload", category), err)
	}
	return features, nil
}

func decodeNoise(raw []byte) ([]mapview.Feature, error) {
	var payload noisePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	features := make([]mapview.Feature, 0, len(payload.Readings))
	for _, r := range payload.Readings {
		position := mapview.Point{Lat: r.Lat, Lng: r.Lng}
		features = append(features, mapview.Feature{ID: r.ID, Kind: "noise", Position: position, Value: r.Decibels, Unit: "dB"})
		if r.Population > 0 {
			features = append(features, mapview.Feature{ID: r.ID + "-population", Kind: "population", Position: position, Value: r.Population, Unit: "people"})
		}
	}
	return features, nil
}

func decodeEnvironment(raw []byte) ([]mapview.Feature, error) {
	var payload environmentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	features := make([]mapview.Feature, 0, len(payload.Points))
	for _, p := range payload.Points {
		kind := strings.TrimSpace(p.Kind)
		if kind == "" {
			kind = "environment"
		}
		features = append(features, mapview.Feature{
			ID:       p.ID,
			Kind:     kind,
			Name:     p.Name,
			Position: mapview.Point{Lat: p.Lat, Lng: p.Lng},
			Value:    p.Value,
			Unit:     p.Unit,
		})
	}
	return features, nil
}

func decodeSafety(raw []byte) ([]mapview.Feature, error) {
	var payload safetyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	features := make([]mapview.Feature, 0, len(payload.Paths)+len(payload.CCTV))
	for _, p := range payload.Paths {
		if len(p.Path) == 0 {
			continue
		}
		features = append(features, mapview.Feature{
			ID:       p.ID,
			Kind:     "lit_path",
			Name:     p.Name,
			Position: p.Path[0].point(),
			Path:     toPath(p.Path),
		})
	}
	for _, cam := range payload.CCTV {
		features = append(features, mapview.Feature{ID: cam.ID, Kind: "cctv", Position: mapview.Point{Lat: cam.Lat, Lng: cam.Lng}})
	}
	return features, nil
}

func decodeAccessibility(raw []byte) ([]mapview.Feature, error) {
	var payload accessibilityPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	features := []mapview.Feature{}
	for _, route := range payload.Routes {
		if len(route.Path) > 0 {
			kind := "transit_route"
			if mode := strings.TrimSpace(route.Mode); mode != "" {
				kind = mode + "_route"
			}
			features = append(features, mapview.Feature{
				ID:       route.ID,
				Kind:     kind,
				Name:     route.Name,
				Position: route.Path[0].point(),
				Path:     toPath(route.Path),
			})
		}
		for _, stop := range route.Stops {
			features = append(features, mapview.Feature{
				ID:       route.ID + "/" + stop.ID,
				Kind:     "transit_stop",
				Name:     stop.Name,
				Position: mapview.Point{Lat: stop.Lat, Lng: stop.Lng},
			})
		}
	}
	return features, nil
}

func decodeConvenience(raw []byte) ([]mapview.Feature, error) {
	var payload conveniencePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	features := make([]mapview.Feature, 0, len(payload.Facilities))
	for _, f := range payload.Facilities {
		kind := strings.TrimSpace(f.Kind)
		if kind == "" {
			kind = "facility"
		}
		features = append(features, mapview.Feature{
			ID:       f.ID,
			Kind:     kind,
			Name:     f.Name,
			Position: mapview.Point{Lat: f.Lat, Lng: f.Lng},
		})
	}
	return features, nil
}
