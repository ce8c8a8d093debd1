package migrations

import "embed"

// FS contains embedded Postgres migrations for reputation storage.
//
//go:embed *.sql
var FS embed.FS
