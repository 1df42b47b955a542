package database

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/noah-isme/school-api/migrations"
)

// RunMigrations runs a goose command against the embedded migrations.
var RunMigrations = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, db, ".", args...)
}

// MigrateUp applies every pending embedded migration.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	return RunMigrations(ctx, db, "up")
}
