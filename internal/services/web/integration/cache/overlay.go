package cache

import (
	"context"
	"time"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/platform/logging"
	"github.com/louisbranch/nestmap/internal/platform/timeouts"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	webstorage "github.com/louisbranch/nestmap/internal/services/web/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	tracerName        = "github.com/louisbranch/nestmap/internal/services/web/integration/cache"
	defaultOverlayTTL = 10 * time.Minute
)

// PayloadSource loads raw category payloads from the backend.
type PayloadSource interface {
	FetchCategoryPayload(ctx context.Context, category mapview.Category, propertyID string) ([]byte, error)
}

// OverlayFetcherConfig configures an OverlayFetcher.
type OverlayFetcherConfig struct {
	Source PayloadSource
	// Store may be nil, in which case only concurrent loads are shared.
	Store  webstorage.Store
	TTL    time.Duration
	Now    func() time.Time
	Logger *zap.Logger
	Tracer trace.Tracer
}

// OverlayFetcher serves category overlays from the cache store, loading
// misses from the backend. Concurrent misses for the same key share one
// backend call.
type OverlayFetcher struct {
	source PayloadSource
	store  webstorage.Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
	tracer trace.Tracer
	group  singleflight.Group
}

// NewOverlayFetcher builds a cached mapview.Fetcher.
func NewOverlayFetcher(cfg OverlayFetcherConfig) *OverlayFetcher {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultOverlayTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &OverlayFetcher{
		source: cfg.Source,
		store:  cfg.Store,
		ttl:    ttl,
		now:    now,
		logger: logging.OrNop(cfg.Logger),
		tracer: tracer,
	}
}

// FetchOverlay implements mapview.Fetcher.
func (f *OverlayFetcher) FetchOverlay(ctx context.Context, category mapview.Category, property mapview.Property) ([]mapview.Feature, error) {
	key := webstorage.OverlayKey(category.String(), property.ID)
	ctx, span := f.tracer.Start(ctx, "cache.FetchOverlay", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if payload, ok := f.lookup(ctx, key); ok {
		features, err := backend.DecodeFeatures(category, payload)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return features, nil
		}
		// Entries written under an older payload shape are dropped for the
		// whole property so its other categories reload too.
		f.logger.Warn("cached overlay unreadable", zap.String("cache_key", key), zap.Error(err))
		if err := f.Invalidate(ctx, property.ID); err != nil {
			f.logger.Warn("overlay cache invalidate failed", zap.String("property_id", property.ID), zap.Error(err))
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	results := f.group.DoChan(key, func() (any, error) {
		// The shared load outlives any single caller's cancellation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.OverlayFetch)
		defer cancel()
		return f.load(loadCtx, key, category, property.ID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return backend.DecodeFeatures(category, res.Val.([]byte))
	}
}

func (f *OverlayFetcher) lookup(ctx context.Context, key string) ([]byte, bool) {
	if f.store == nil {
		return nil, false
	}
	entry, found, err := f.store.GetOverlayEntry(ctx, key)
	if err != nil {
		f.logger.Warn("overlay cache read failed", zap.String("cache_key", key), zap.Error(err))
		return nil, false
	}
	if !found || !entry.Fresh(f.now()) {
		return nil, false
	}
	return entry.PayloadBytes, true
}

func (f *OverlayFetcher) load(ctx context.Context, key string, category mapview.Category, propertyID string) ([]byte, error) {
	payload, err := f.source.FetchCategoryPayload(ctx, category, propertyID)
	if err != nil {
		return nil, err
	}
	if _, err := backend.DecodeFeatures(category, payload); err != nil {
		return nil, err
	}
	if f.store != nil {
		now := f.now().UTC()
		entry := webstorage.OverlayEntry{
			CacheKey:     key,
			Category:     category.String(),
			PropertyID:   propertyID,
			PayloadBytes: payload,
			RefreshedAt:  now,
			ExpiresAt:    now.Add(f.ttl),
		}
		if err := f.store.PutOverlayEntry(ctx, entry); err != nil {
			f.logger.Warn("overlay cache write failed", zap.String("cache_key", key), zap.Error(err))
		}
	}
	return payload, nil
}

// Invalidate drops every cached overlay of a property.
func (f *OverlayFetcher) Invalidate(ctx context.Context, propertyID string) error {
	if f.store == nil {
		return nil
	}
	return f.store.DeletePropertyEntries(ctx, propertyID)
}

// RunPruner deletes expired entries every interval until ctx is done.
func (f *OverlayFetcher) RunPruner(ctx context.Context, interval time.Duration) {
	if f.store == nil {
		return
	}
	if interval <= 0 {
		interval = f.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := f.store.PruneExpired(ctx, f.now())
			if err != nil {
				f.logger.Warn("overlay cache prune failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				f.logger.Debug("overlay cache pruned", zap.Int64("removed", removed))
			}
		}
	}
}

var _ mapview.Fetcher = (*OverlayFetcher)(nil)
