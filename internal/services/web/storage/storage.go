package storage

import (
	"context"
	"time"
)

// OverlayEntry stores one backend category payload and its freshness window.
type OverlayEntry struct {
	CacheKey     string
	Category     string
	PropertyID   string
	PayloadBytes []byte
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// Fresh reports whether the entry may still be served at now. Entries with
// no expiry never go stale.
func (e OverlayEntry) Fresh(now time.Time) bool {
	return e.ExpiresAt.IsZero() || now.Before(e.ExpiresAt)
}

// OverlayKey builds the cache key for one category of one property.
func OverlayKey(category, propertyID string) string {
	return "overlay:" + category + ":" + propertyID
}

// Store is the overlay cache persistence contract.
type Store interface {
	Close() error
	GetOverlayEntry(ctx context.Context, cacheKey string) (OverlayEntry, bool, error)
	PutOverlayEntry(ctx context.Context, entry OverlayEntry) error
	DeleteOverlayEntry(ctx context.Context, cacheKey string) error
	DeletePropertyEntries(ctx context.Context, propertyID string) error
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
