package mapview

import (
	"context"
	"strings"
)

// FetchKey identifies the data a category binding should currently show.
type FetchKey struct {
	Category   Category
	PropertyID string
}

// DeriveFetchKey returns the key a binding needs, or false when the binding
// is disabled: the category is inactive or no property is selected.
func DeriveFetchKey(category Category, active bool, property *Property) (FetchKey, bool) {
	if !active || property == nil || strings.TrimSpace(property.ID) == "" {
		return FetchKey{}, false
	}
	return FetchKey{Category: category, PropertyID: property.ID}, true
}

// binding mirrors one category's fetched data into its overlay slice. Every
// key change bumps epoch; a fetch result is applied only when the epoch it
// was issued under is still current.
type binding struct {
	category Category
	key      FetchKey
	enabled  bool
	epoch    uint64
	cancel   context.CancelFunc
	done     chan struct{}
	overlay  Overlay
}

func newBinding(category Category) *binding {
	return &binding{
		category: category,
		overlay:  Overlay{Category: category, Status: OverlayEmpty, Features: []Feature{}},
	}
}

// retarget moves the binding to key and reports whether a fetch is needed.
// The overlay slice is cleared in the same step so nothing from the previous
// key is ever rendered.
func (b *binding) retarget(key FetchKey, enabled bool) bool {
	if enabled == b.enabled && key == b.key {
		return false
	}
	b.supersede()
	b.key, b.enabled = key, enabled
	if !enabled {
		b.overlay = Overlay{Category: b.category, Status: OverlayEmpty, Features: []Feature{}}
		return false
	}
	b.overlay = Overlay{Category: b.category, PropertyID: key.PropertyID, Status: OverlayLoading, Features: []Feature{}}
	return true
}

// supersede invalidates the in-flight fetch, if any.
func (b *binding) supersede() {
	b.epoch++
	if b.cancel != nil {
		b.cancel()
	}
	b.cancel = nil
	b.done = nil
}

// current reports whether a result issued under epoch may still be applied.
func (b *binding) current(epoch uint64) bool {
	return b.enabled && b.epoch == epoch
}
