package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every registered migration in registration order.
var Migrations = migrate.NewMigrations()
