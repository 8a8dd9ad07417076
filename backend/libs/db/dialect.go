package db

import (
	"regexp"
)

// Dialect hides the SQL differences between the supported servers.
// Queries are written with PostgreSQL placeholders ($1, $2, ...).
type Dialect interface {
	Name() string
	Rebind(query string) string
}

var (
	// Postgres is the canonical dialect.
	Postgres Dialect = postgresDialect{}
	// SQLite rewrites positional placeholders to '?'.
	SQLite Dialect = sqliteDialect{}
)

var positionalPlaceholder = regexp.MustCompile(`\$\d+`)

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) Rebind(query string) string { return query }

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

// Rebind assumes placeholders appear in argument order, which holds for
// every query in this repository.
func (sqliteDialect) Rebind(query string) string {
	return positionalPlaceholder.ReplaceAllString(query, "?")
}
