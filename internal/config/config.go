package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/database"
)

// GeneratorConfig holds the settings shared by the command line tools.
type GeneratorConfig struct {
	Generator GenerationConfig `yaml:"generator"`
	Database  database.Config  `yaml:"database"`
	Preview   PreviewConfig    `yaml:"preview"`
}

// GenerationConfig selects the zone, reference data and seed of a run.
type GenerationConfig struct {
	// Seed is the run seed. 0 is a valid seed.
	Seed uint64 `yaml:"seed"`

	// ZoneFile is the zone document to generate.
	ZoneFile string `yaml:"zone_file"`

	// DataFile is the YAML reference data catalog. Ignored when the
	// database driver is sqlite or postgres.
	DataFile string `yaml:"data_file"`

	// MapWidth and MapHeight override the zone's floor size when non-zero.
	MapWidth  int `yaml:"map_width"`
	MapHeight int `yaml:"map_height"`
}

// PreviewConfig holds the preview server settings.
type PreviewConfig struct {
	// Address is the listen address, e.g. ":4040".
	Address string `yaml:"address"`

	WebSocket WebSocketConfig `yaml:",inline"`

	Connections ConnectionsConfig `yaml:"connections"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a GeneratorConfig reading the bundled example data.
func DefaultConfig() *GeneratorConfig {
	return &GeneratorConfig{
		Generator: GenerationConfig{
			ZoneFile: "data/zones/damp_cave.yaml",
			DataFile: "data/catalog.yaml",
		},
		Database: database.Config{
			Driver:     database.DriverYAML,
			SQLitePath: "data/dungeongen.db",
			Postgres:   database.DefaultPostgresConfig(),
		},
		Preview: PreviewConfig{
			Address: ":4040",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 1024,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 4,
				MaxTotal: 32,
			},
		},
	}
}

// LoadConfig loads generator configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*GeneratorConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return config, nil
}

// Validate rejects settings no tool can run with.
func (c *GeneratorConfig) Validate() error {
	switch c.Database.Driver {
	case database.DriverYAML, database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Generator.MapWidth < 0 || c.Generator.MapHeight < 0 {
		return fmt.Errorf("negative map size %dx%d", c.Generator.MapWidth, c.Generator.MapHeight)
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
