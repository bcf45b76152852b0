package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/nestmap/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/nestmap/internal/services/web/storage"
	"github.com/louisbranch/nestmap/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var errNotConfigured = errors.New("storage is not configured")

// Store provides SQLite-backed persistence for cached overlay payloads.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates an overlay cache SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetOverlayEntry loads a cached payload by key, expired or not.
func (s *Store) GetOverlayEntry(ctx context.Context, cacheKey string) (webstorage.OverlayEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.OverlayEntry{}, false, errNotConfigured
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return webstorage.OverlayEntry{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT cache_key, category, property_id, payload_json, refreshed_at, expires_at
		 FROM overlay_entries
		 WHERE cache_key = ?`,
		cacheKey,
	)
	var entry webstorage.OverlayEntry
	var refreshedAt, expiresAt int64
	if err := row.Scan(&entry.CacheKey, &entry.Category, &entry.PropertyID, &entry.PayloadBytes, &refreshedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.OverlayEntry{}, false, nil
		}
		return webstorage.OverlayEntry{}, false, fmt.Errorf("get overlay entry: %w", err)
	}
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)
	return entry, true, nil
}

// PutOverlayEntry upserts a cached payload.
func (s *Store) PutOverlayEntry(ctx context.Context, entry webstorage.OverlayEntry) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	entry.Category = strings.TrimSpace(entry.Category)
	if entry.Category == "" {
		return fmt.Errorf("category is required")
	}
	entry.PropertyID = strings.TrimSpace(entry.PropertyID)
	if entry.PropertyID == "" {
		return fmt.Errorf("property id is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("overlay payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO overlay_entries (cache_key, category, property_id, payload_json, refreshed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    category = excluded.category,
		    property_id = excluded.property_id,
		    payload_json = excluded.payload_json,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		entry.Category,
		entry.PropertyID,
		entry.PayloadBytes,
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put overlay entry: %w", err)
	}
	return nil
}

// DeleteOverlayEntry removes one cached payload.
func (s *Store) DeleteOverlayEntry(ctx context.Context, cacheKey string) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM overlay_entries WHERE cache_key = ?`, cacheKey); err != nil {
		return fmt.Errorf("delete overlay entry: %w", err)
	}
	return nil
}

// DeletePropertyEntries removes every cached category payload of a property.
func (s *Store) DeletePropertyEntries(ctx context.Context, propertyID string) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return fmt.Errorf("property id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM overlay_entries WHERE property_id = ?`, propertyID); err != nil {
		return fmt.Errorf("delete property overlay entries: %w", err)
	}
	return nil
}

// PruneExpired deletes entries whose expiry is at or before now and returns
// how many were removed.
func (s *Store) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, errNotConfigured
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM overlay_entries WHERE expires_at > 0 AND expires_at <= ?`,
		timeToUnixMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("prune overlay entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune overlay entries: %w", err)
	}
	return removed, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
