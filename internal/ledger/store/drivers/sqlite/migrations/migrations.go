// Package migrations embeds the schema so the binary can migrate itself.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
