package migrations

import "embed"

// FS contains embedded SQLite migrations for reputation storage.
//
//go:embed *.sql
var FS embed.FS
