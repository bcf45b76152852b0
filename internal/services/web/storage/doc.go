// Package storage declares persistence interfaces for web-owned cache data.
//
// Cached overlay payloads are derived from backend reads and can always be
// discarded.
package storage
