package db

import (
	"context"
	"embed"
	"io/fs"

	libdb "evcharging/backend/libs/db"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Open connects to the configured store using the shared library helper and
// brings the schema up to date.
func Open(ctx context.Context, driver, dsn string) (*libdb.DB, error) {
	store, err := libdb.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, store); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Migrate applies the embedded schema migrations for the store's dialect.
func Migrate(ctx context.Context, store *libdb.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	_, err = libdb.Migrate(ctx, store, fsys)
	return err
}
