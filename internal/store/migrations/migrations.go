// Package migrations embeds the SQL schema migrations for portal.db.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
