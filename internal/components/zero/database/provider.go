// SPDX-License-Identifier: MPL-2.0

// Package database is the zero/database component: it opens the configured
// SQL database and binds it into the container as "db".
package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

const (
	// Key is the container key of the *sql.DB.
	Key = "db"

	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	// DefaultSQLitePath is the SQLite file used when no DSN is configured,
	// relative to the base path.
	DefaultSQLitePath = "database/database.sqlite"
)

// Provider binds the database connection pool when "database.driver" is set.
type Provider struct {
	app contracts.Application
}

// NewProvider implements contracts.ProviderFactory.
func NewProvider(app contracts.Application) (contracts.Provider, error) {
	return &Provider{app: app}, nil
}

// Register implements contracts.Registerer.
func (p *Provider) Register() error {
	cfg := p.app.Config()
	if !cfg.Has("database.driver") {
		return nil
	}

	driver := cfg.String("database.driver")
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	dsn := cfg.String("database.dsn")
	if dsn == "" {
		if driver != DriverSQLite {
			return fmt.Errorf("database.dsn is required for driver %s", driver)
		}
		dsn = DefaultSQLitePath
	}
	if driver == DriverSQLite {
		dsn = SQLiteDSN(p.app.BasePath(), dsn)
	}
	maxOpen := cfg.Int("database.max-open-conns")

	p.app.Singleton(Key, func(*container.Container) (any, error) {
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", driver, err)
		}
		if maxOpen > 0 {
			db.SetMaxOpenConns(maxOpen)
		}
		p.app.Logger().Debug("opened database", "driver", driver)
		return db, nil
	})
	return p.app.Alias(Key, container.KeyOf[*sql.DB]())
}

// SQLiteDSN resolves a relative SQLite file in dsn against base, so the
// database does not depend on the working directory. In-memory databases
// and absolute paths are returned unchanged; "file:" URIs keep their query.
func SQLiteDSN(base, dsn string) string {
	uri := strings.HasPrefix(dsn, "file:")
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || filepath.IsAbs(path) || base == "" {
		return dsn
	}

	out := filepath.Join(base, path)
	if uri {
		out = "file:" + out
	}
	if query != "" {
		out += "?" + query
	}
	return out
}
