// Package migrations holds the bun migrations for the leaderboard schema and
// the capital catalog.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
