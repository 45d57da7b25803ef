// Package storage opens database handles for the supported drivers and
// executes composed queries. The augmentation core never touches it; it
// exists so callers (and the CLI) can run and paginate what the core built.
package storage

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/searchq/searchq/searchq"
	"github.com/searchq/searchq/searchq/dialect"
)

// Open connects a database handle for the given driver name. Unrecognized
// drivers fall back to SQLite, mirroring the generic dialect fallback.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch driver {
	case dialect.DriverMySQL:
		db, err = sql.Open("mysql", dsn)
	case dialect.DriverPostgres:
		var cfg *pgx.ConnConfig
		cfg, err = pgx.ParseConfig(dsn)
		if err != nil {
			return nil, searchq.Wrap(searchq.ErrConfig, "parse postgres dsn", err)
		}
		db = stdlib.OpenDB(*cfg)
	case dialect.DriverSQLServer:
		db, err = sql.Open("sqlserver", dsn)
	default:
		db, err = sql.Open("sqlite", dsn)
	}
	if err != nil {
		return nil, searchq.Wrap(searchq.ErrIO, "open database", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, searchq.Wrap(searchq.ErrIO, "ping database", err)
	}
	return db, nil
}
