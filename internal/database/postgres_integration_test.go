package database

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lawnchairsociety/dungeongen/internal/refdata"
)

// getPostgresTestConfig returns PostgreSQL config if available, nil otherwise.
// Set these environment variables to run PostgreSQL tests:
//
//	DUNGEONGEN_TEST_POSTGRES (any value enables the tests)
//	DUNGEONGEN_TEST_POSTGRES_HOST (default: localhost)
//	DUNGEONGEN_TEST_POSTGRES_PORT (default: 5432)
//	DUNGEONGEN_TEST_POSTGRES_USER (default: dungeongen)
//	DUNGEONGEN_TEST_POSTGRES_PASSWORD (default: dungeongen)
//	DUNGEONGEN_TEST_POSTGRES_DATABASE (default: dungeongen_test)
func getPostgresTestConfig() *Config {
	if os.Getenv("DUNGEONGEN_TEST_POSTGRES") == "" {
		return nil
	}

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	port := 5432
	if portStr := os.Getenv("DUNGEONGEN_TEST_POSTGRES_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	return &Config{
		Driver: DriverPostgres,
		Postgres: PostgresConfig{
			Host:            env("DUNGEONGEN_TEST_POSTGRES_HOST", "localhost"),
			Port:            port,
			User:            env("DUNGEONGEN_TEST_POSTGRES_USER", "dungeongen"),
			Password:        env("DUNGEONGEN_TEST_POSTGRES_PASSWORD", "dungeongen"),
			Database:        env("DUNGEONGEN_TEST_POSTGRES_DATABASE", "dungeongen_test"),
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 1 * time.Minute,
		},
	}
}

// setupPostgresTestDB opens a PostgreSQL connection and empties the reference tables.
func setupPostgresTestDB(t *testing.T) *Database {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: DUNGEONGEN_TEST_POSTGRES not set")
	}

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}

	tables := []string{"species", "skills", "intrinsics", "statuses"}
	clean := func() {
		for _, table := range tables {
			if _, err := db.db.Exec("DELETE FROM " + table); err != nil {
				t.Logf("Note: Could not clean table %s: %v", table, err)
			}
		}
	}
	clean()
	t.Cleanup(func() {
		clean()
		db.Close()
	})

	return db
}

func TestPostgres_ImportAndLookup(t *testing.T) {
	db := setupPostgresTestDB(t)
	c := testCatalog(t)

	if _, err := db.ImportCatalog(c, false); err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	if _, err := db.ImportCatalog(c, false); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID on second import, got %v", err)
	}
	if _, err := db.ImportCatalog(c, true); err != nil {
		t.Errorf("replace import failed: %v", err)
	}

	for _, want := range c.SpeciesList {
		got, err := db.Species(want.ID)
		if err != nil {
			t.Fatalf("Species(%q): %v", want.ID, err)
		}
		if len(got.Forms) != len(want.Forms) {
			t.Errorf("species %q has %d forms, want %d", want.ID, len(got.Forms), len(want.Forms))
		}
	}
	if _, err := db.Skill("missingno"); !errors.Is(err, refdata.ErrUnknownID) {
		t.Errorf("expected ErrUnknownID, got %v", err)
	}
}

func TestPostgres_ConnectionPoolSettings(t *testing.T) {
	db := setupPostgresTestDB(t)

	stats := db.db.Stats()
	if stats.MaxOpenConnections != 5 {
		t.Errorf("Expected MaxOpenConnections 5, got %d", stats.MaxOpenConnections)
	}
}
