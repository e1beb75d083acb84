// Package migrations embeds the schema applied by database.ApplyMigrations at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
