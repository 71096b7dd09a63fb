// Package migrations embeds the sqlite schema migrations so the binary can
// bring a fresh data directory up to date on boot.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
