package cache

import (
	"context"
	"fmt"
)

// Backend drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config selects and locates a cache backend.
type Config struct {
	Driver string
	// Path is the SQLite file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
}

// Open builds the backend named by cfg.Driver. An empty driver means SQLite.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenSQLite(cfg.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
