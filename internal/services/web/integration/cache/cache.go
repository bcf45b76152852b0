// Package cache wires the overlay cache store into overlay fetching.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	websqlite "github.com/louisbranch/nestmap/internal/services/web/storage/sqlite"
)

// OpenStore opens the overlay cache store when a storage path is provided.
// An empty path disables caching and returns a nil store.
func OpenStore(path string) (*websqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create web cache dir: %w", err)
		}
	}
	store, err := websqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open web cache sqlite store: %w", err)
	}
	return store, nil
}
