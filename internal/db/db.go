package db

import (
	"context"
	"database/sql"
	"fmt"

	"hourkeep/pkg/types"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Database is an open *sql.DB and the SQL dialect it speaks.
type Database struct {
	*sql.DB
	Dialect Dialect

	closer func()
}

// Open connects to the database selected by config.DatabaseDriver.
func Open(ctx context.Context, config *types.Config) (*Database, error) {
	switch Dialect(config.DatabaseDriver) {
	case SQLite, "":
		return OpenSQLite(ctx, config.SQLitePath)
	case Postgres:
		return ConnectPostgres(ctx, config)
	}
	return nil, fmt.Errorf("unsupported database driver %q", config.DatabaseDriver)
}

func (d *Database) Close() error {
	err := d.DB.Close()
	if d.closer != nil {
		d.closer()
	}
	return err
}
