package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *DB {
	t.Helper()
	store, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(DriverPostgres, " ")
	assert.Error(t, err)

	_, err = Open(DriverSQLite, "")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	query := `SELECT id FROM t WHERE a = $1 AND b >= $2 AND c <= $10`

	assert.Equal(t, query, Postgres.Rebind(query))
	assert.Equal(t, `SELECT id FROM t WHERE a = ? AND b >= ? AND c <= ?`, SQLite.Rebind(query))
}

func TestConstraintClassification_SQLite(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	_, err := store.ExecContext(ctx, `CREATE TABLE things (
		name TEXT NOT NULL UNIQUE,
		state TEXT NOT NULL CHECK (state IN ('on', 'off'))
	)`)
	require.NoError(t, err)

	insert := store.Dialect.Rebind(`INSERT INTO things (name, state) VALUES ($1, $2)`)
	_, err = store.ExecContext(ctx, insert, "a", "on")
	require.NoError(t, err)

	_, err = store.ExecContext(ctx, insert, "a", "off")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsCheckViolation(err))

	_, err = store.ExecContext(ctx, insert, "b", "broken")
	require.Error(t, err)
	assert.True(t, IsCheckViolation(err))
	assert.False(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsCheckViolation(errors.New("boom")))
}

func TestConstraintClassification_Postgres(t *testing.T) {
	tooLong := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22001"})
	assert.True(t, IsValueTooLong(tooLong))
	assert.False(t, IsUniqueViolation(tooLong))

	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsValueTooLong(unique))
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, IsValueTooLong(nil))
}

func TestMigrate_SQLite(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"sqlite/00001_widgets.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE widgets (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);

-- +goose Down
DROP TABLE widgets;
`)},
	}

	applied, err := Migrate(ctx, store, fsys)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = Migrate(ctx, store, fsys)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	_, err = store.ExecContext(ctx, `INSERT INTO widgets (name) VALUES ('w')`)
	assert.NoError(t, err)
}
