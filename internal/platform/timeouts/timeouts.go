// Package timeouts defines shared timeout constants.
package timeouts

import "time"

// BackendRequest caps a single backend REST call.
const BackendRequest = 2 * time.Second

// OverlayFetch caps one category overlay fetch, including cache lookups.
const OverlayFetch = 5 * time.Second

// OverlaySettle caps how long an overlay read waits for in-flight fetches.
const OverlaySettle = 3 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
