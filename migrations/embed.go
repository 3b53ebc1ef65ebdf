// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// Files holds the NNNNNN_name.{up,down}.sql migrations.
//
//go:embed *.sql
var Files embed.FS
