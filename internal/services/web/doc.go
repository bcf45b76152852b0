// Package web hosts the browser-facing property map service.
//
// It composes the public and visitor-only modules behind one root handler
// and owns the process-wide map view registry and overlay cache.
package web
