package db

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found in fsys. The directory
// layout is expected to hold one sub-directory per dialect name
// (postgres/, sqlite/).
func Migrate(ctx context.Context, store *DB, fsys fs.FS) (int, error) {
	dialect, err := gooseDialect(store.Dialect)
	if err != nil {
		return 0, err
	}

	sub, err := fs.Sub(fsys, store.Dialect.Name())
	if err != nil {
		return 0, fmt.Errorf("db: migrations for %s: %w", store.Dialect.Name(), err)
	}

	provider, err := goose.NewProvider(dialect, store.DB, sub)
	if err != nil {
		return 0, fmt.Errorf("db: goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("db: goose up: %w", err)
	}
	return len(results), nil
}

func gooseDialect(d Dialect) (goose.Dialect, error) {
	switch d.Name() {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, d.Name())
	}
}
