// Package db holds the SQL schema migrations, embedded for builds with
// the embed_migrations tag.
package db

import "embed"

// Migrations contains migrations/*.sql in golang-migrate naming
// (<version>_<name>.up.sql / .down.sql).
//
//go:embed migrations/*.sql
var Migrations embed.FS
