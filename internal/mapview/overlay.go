package mapview

import (
	"context"
	"slices"
	"time"
)

// OverlayStatus describes the lifecycle of one overlay slice.
type OverlayStatus string

const (
	OverlayEmpty   OverlayStatus = "empty"
	OverlayLoading OverlayStatus = "loading"
	OverlayReady   OverlayStatus = "ready"
	OverlayFailed  OverlayStatus = "failed"
)

// Feature is one drawable element of an overlay: a marker when Path is
// empty, a polyline otherwise.
type Feature struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Name     string  `json:"name,omitempty"`
	Position Point   `json:"position"`
	Path     []Point `json:"path,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// Overlay is the slice of map data one category contributes.
type Overlay struct {
	Category   Category      `json:"category"`
	PropertyID string        `json:"property_id,omitempty"`
	Status     OverlayStatus `json:"status"`
	Features   []Feature     `json:"features"`
	UpdatedAt  time.Time     `json:"updated_at,omitzero"`
}

func (o Overlay) clone() Overlay {
	o.Features = slices.Clone(o.Features)
	if o.Features == nil {
		o.Features = []Feature{}
	}
	return o
}

// Fetcher loads the overlay features of one category for a property.
type Fetcher interface {
	FetchOverlay(ctx context.Context, category Category, property Property) ([]Feature, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, category Category, property Property) ([]Feature, error)

// FetchOverlay calls f.
func (f FetcherFunc) FetchOverlay(ctx context.Context, category Category, property Property) ([]Feature, error) {
	return f(ctx, category, property)
}
