// Package database stores reference data (species, skills, intrinsics and
// statuses) in SQLite or PostgreSQL and serves it to the generator.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

// Database wraps the SQL connection and caches the records it has served.
// It implements refdata.Provider and is safe for concurrent use.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder

	species    recordCache[refdata.Species]
	skills     recordCache[refdata.Skill]
	intrinsics recordCache[refdata.Intrinsic]
	statuses   recordCache[refdata.Status]
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database selected by cfg.Driver and ensures the
// schema exists.
func OpenWithConfig(cfg Config) (*Database, error) {
	var dsn string
	var dialect Dialect
	switch cfg.Driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialect = NewDialect(DialectSQLite)
		dsn = cfg.SQLitePath
	case DriverPostgres:
		dialect = NewDialect(DialectPostgres)
		dsn = cfg.Postgres.DSN()
	default:
		return nil, fmt.Errorf("driver %q has no database", cfg.Driver)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Driver == DriverPostgres {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("reference database opened", "driver", cfg.Driver)
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		// Forms are stored as a YAML document, the same shape as a catalog file.
		`CREATE TABLE IF NOT EXISTS species (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			forms TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS skills (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			power INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS intrinsics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS statuses (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			targeted INTEGER NOT NULL DEFAULT 0
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect returns the SQL dialect of the connection.
func (d *Database) Dialect() Dialect {
	return d.dialect
}
