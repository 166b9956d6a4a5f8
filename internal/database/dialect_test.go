package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

// =============================================================================
// Dialect Tests
// =============================================================================

func TestNewDialect(t *testing.T) {
	if _, ok := NewDialect(DialectSQLite).(*SQLiteDialect); !ok {
		t.Error("expected *SQLiteDialect for sqlite")
	}
	if _, ok := NewDialect(DialectPostgres).(*PostgresDialect); !ok {
		t.Error("expected *PostgresDialect for postgres")
	}
	// Unknown dialect should default to SQLite
	if _, ok := NewDialect("unknown").(*SQLiteDialect); !ok {
		t.Error("expected default *SQLiteDialect")
	}
}

func TestDialect_DriverName(t *testing.T) {
	if got := (&SQLiteDialect{}).DriverName(); got != "sqlite" {
		t.Errorf("SQLite DriverName() = %q", got)
	}
	if got := (&PostgresDialect{}).DriverName(); got != "postgres" {
		t.Errorf("Postgres DriverName() = %q", got)
	}
}

func TestDialect_Placeholder(t *testing.T) {
	tests := []struct {
		position int
		sqlite   string
		postgres string
	}{
		{1, "?", "$1"},
		{2, "?", "$2"},
		{10, "?", "$10"},
	}
	for _, tt := range tests {
		if got := (&SQLiteDialect{}).Placeholder(tt.position); got != tt.sqlite {
			t.Errorf("SQLite Placeholder(%d) = %q, want %q", tt.position, got, tt.sqlite)
		}
		if got := (&PostgresDialect{}).Placeholder(tt.position); got != tt.postgres {
			t.Errorf("Postgres Placeholder(%d) = %q, want %q", tt.position, got, tt.postgres)
		}
	}
}

func TestSQLiteDialect_IsDuplicateKeyError(t *testing.T) {
	d := &SQLiteDialect{}
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("some random error"), false},
		{errors.New("UNIQUE constraint failed: species.id"), true},
		{fmt.Errorf("wrapped: %w", errors.New("UNIQUE constraint failed: skills.id")), true},
		{errors.New("no such table: species"), false},
	}
	for _, tt := range tests {
		if got := d.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPostgresDialect_IsDuplicateKeyError(t *testing.T) {
	d := &PostgresDialect{}
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("duplicate key value violates unique constraint"), false},
		{&pq.Error{Code: "23505"}, true},
		{fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{&pq.Error{Code: "23503"}, false}, // foreign_key_violation
	}
	for _, tt := range tests {
		if got := d.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

// =============================================================================
// QueryBuilder Tests
// =============================================================================

func TestQueryBuilder_Build(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{"sqlite unchanged", &SQLiteDialect{}, "SELECT name FROM skills WHERE id = ?", "SELECT name FROM skills WHERE id = ?"},
		{"postgres single", &PostgresDialect{}, "SELECT name FROM skills WHERE id = ?", "SELECT name FROM skills WHERE id = $1"},
		{"postgres many", &PostgresDialect{}, "VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
		{"postgres none", &PostgresDialect{}, "SELECT COUNT(*) FROM species", "SELECT COUNT(*) FROM species"},
		{"empty", &PostgresDialect{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewQueryBuilder(tt.dialect).Build(tt.query); got != tt.expected {
				t.Errorf("Build() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestQueryBuilder_Upsert(t *testing.T) {
	sqlite := NewQueryBuilder(&SQLiteDialect{}).Upsert("skills", "id", "name", "power")
	want := "INSERT INTO skills (id, name, power) VALUES (?, ?, ?) ON CONFLICT (id) DO UPDATE SET name = excluded.name, power = excluded.power"
	if sqlite != want {
		t.Errorf("sqlite Upsert = %q, want %q", sqlite, want)
	}

	pg := NewQueryBuilder(&PostgresDialect{}).Upsert("intrinsics", "id", "name")
	want = "INSERT INTO intrinsics (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = excluded.name"
	if pg != want {
		t.Errorf("postgres Upsert = %q, want %q", pg, want)
	}
}

func TestQueryBuilder_Insert(t *testing.T) {
	got := NewQueryBuilder(&PostgresDialect{}).Insert("statuses", "id", "name", "targeted")
	want := "INSERT INTO statuses (id, name, targeted) VALUES ($1, $2, $3)"
	if got != want {
		t.Errorf("Insert = %q, want %q", got, want)
	}
}

// =============================================================================
// Config Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/test.db")
	if cfg.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Driver)
	}
	if cfg.SQLitePath != "/tmp/test.db" {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath)
	}
}

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()
	if cfg.Host != "localhost" || cfg.Port != 5432 || cfg.SSLMode != "disable" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 5m", cfg.ConnMaxLifetime)
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, User: "gen", Password: "pw", Database: "ref", SSLMode: "require"}
	want := "host=db port=5433 user=gen password=pw dbname=ref sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestDialect_InterfaceCompliance(t *testing.T) {
	var _ Dialect = (*SQLiteDialect)(nil)
	var _ Dialect = (*PostgresDialect)(nil)
}
