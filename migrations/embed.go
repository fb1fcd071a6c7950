// Package migrations embeds the goose SQL migrations so the binaries can
// migrate without a checkout of this directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
