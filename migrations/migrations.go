// Package migrations embeds the PostgreSQL schema migrations so the migrate
// command and integration tests share one source.
package migrations

import "embed"

// FS holds the numbered up/down SQL files.
//
//go:embed *.sql
var FS embed.FS
