// Package sqlite provides the overlay cache persistence adapter backed by
// SQLite.
package sqlite
