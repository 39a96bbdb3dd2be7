package store

import (
	"database/sql"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config describes how to reach the relational store.
type Config struct {
	// Driver is either "postgres" or "sqlite3".
	Driver string

	// DSN is the driver-specific connection string.
	DSN string

	// MaxOpenConns caps the pool size. Zero keeps the driver default.
	MaxOpenConns int
}

// Validate checks the connection settings.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DSN, validation.Required),
	)
}

// Open builds a bun.DB for the configured driver. The returned handle owns a
// connection pool that is safe for concurrent use and lives for the process.
func Open(cfg Config) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	switch cfg.Driver {
	case DriverSQLite:
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}
}
