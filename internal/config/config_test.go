package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/database"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Database.Driver != database.DriverYAML {
		t.Errorf("expected yaml driver by default, got %q", cfg.Database.Driver)
	}
	if len(cfg.Preview.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Preview.WebSocket.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/dungeongen.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Generator.ZoneFile != DefaultConfig().Generator.ZoneFile {
		t.Errorf("expected default zone file, got %q", cfg.Generator.ZoneFile)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dungeongen.yaml")

	content := `
generator:
  seed: 99
  zone_file: zones/test.yaml
  map_width: 30
database:
  driver: sqlite
  sqlite_path: /tmp/ref.db
preview:
  address: ":9000"
  allowed_origins:
    - "https://example.com"
    - "http://localhost:3000"
  max_message_size: 8192
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generator.Seed != 99 {
		t.Errorf("expected seed 99, got %d", cfg.Generator.Seed)
	}
	if cfg.Generator.ZoneFile != "zones/test.yaml" {
		t.Errorf("expected zone file override, got %q", cfg.Generator.ZoneFile)
	}
	if cfg.Generator.DataFile != "data/catalog.yaml" {
		t.Errorf("expected data file default to survive, got %q", cfg.Generator.DataFile)
	}
	if cfg.Generator.MapWidth != 30 || cfg.Generator.MapHeight != 0 {
		t.Errorf("expected 30x0 map override, got %dx%d", cfg.Generator.MapWidth, cfg.Generator.MapHeight)
	}
	if cfg.Database.Driver != database.DriverSQLite || cfg.Database.SQLitePath != "/tmp/ref.db" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("expected postgres defaults to survive, got port %d", cfg.Database.Postgres.Port)
	}
	if cfg.Preview.Address != ":9000" {
		t.Errorf("expected address :9000, got %q", cfg.Preview.Address)
	}
	if len(cfg.Preview.WebSocket.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.Preview.WebSocket.AllowedOrigins))
	}
	if cfg.Preview.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.Preview.WebSocket.MaxMessageSize)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "generator: [unclosed"},
		{"unknown driver", "database:\n  driver: mongo\n"},
		{"negative size", "generator:\n  map_height: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dungeongen.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if cfg == nil || cfg.Database.Driver != database.DriverYAML {
				t.Error("expected defaults alongside the error")
			}
		})
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{},
	}

	if !cfg.IsOriginAllowed("", "localhost:4040") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}
	if !cfg.IsOriginAllowed("http://localhost:4040", "localhost:4040") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4040") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Lists(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "http://anything.com", true},
		{"wildcard empty origin", []string{"*"}, "", true},
		{"exact", []string{"https://example.com", "http://localhost:3000"}, "http://localhost:3000", true},
		{"not listed", []string{"https://example.com"}, "http://evil.com", false},
		{"partial", []string{"https://example.com"}, "https://example.com:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := WebSocketConfig{AllowedOrigins: tt.allowed}
			if got := cfg.IsOriginAllowed(tt.origin, "localhost:4040"); got != tt.want {
				t.Errorf("IsOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4040", true},                       // No origin header
		{"http://localhost:4040", "localhost:4040", true},  // HTTP match
		{"https://localhost:4040", "localhost:4040", true}, // HTTPS match
		{"http://localhost:4040/", "localhost:4040", true}, // Trailing slash
		{"http://example.com", "localhost:4040", false},    // Different host
		{"http://localhost:3000", "localhost:4040", false}, // Different port
		{"ws://localhost:4040", "localhost:4040", true},    // WebSocket scheme
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
