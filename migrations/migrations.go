// Package migrations embeds the goose SQL migrations for the postgres data source.
package migrations

import "embed"

// Dir is the directory inside FS holding the migrations.
const Dir = "goose_sql"

//go:embed goose_sql/*.sql
var FS embed.FS
