package migrations

import "embed"

// FS contains embedded SQLite migrations for the web overlay cache.
//
//go:embed *.sql
var FS embed.FS
