package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// ServiceConfig holds the level service configuration.
type ServiceConfig struct {
	Generation GenerationConfig `yaml:"generation"`
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
}

// GenerationConfig holds the default generation parameters. Clients may
// override them per request within the configured step ceiling.
type GenerationConfig struct {
	// WalkSteps is the number of walk iterations per attempt.
	WalkSteps int `yaml:"walk_steps"`

	// StampSize is the stamp half-extent (0 = single cell, 1 = 3x3).
	StampSize int `yaml:"stamp_size"`

	// MinFloorTiles is the acceptance threshold for a generated level.
	MinFloorTiles int `yaml:"min_floor_tiles"`

	// MaxAttempts is the retry budget before generation gives up.
	MaxAttempts int `yaml:"max_attempts"`

	// StartX, StartY position the walk origin.
	StartX int `yaml:"start_x"`
	StartY int `yaml:"start_y"`

	// MaxWalkSteps caps client-requested walk steps. 0 means no cap.
	MaxWalkSteps int `yaml:"max_walk_steps"`
}

// ServerConfig holds network and security settings.
type ServerConfig struct {
	// ListenAddr is the HTTP listen address (e.g. ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// RequireAuth requires clients to authenticate with an API key before
	// requesting generation.
	RequireAuth bool `yaml:"require_auth"`

	// MaxConnsPerIP is the maximum concurrent connections allowed from a
	// single IP address. 0 means unlimited (not recommended).
	MaxConnsPerIP int `yaml:"max_conns_per_ip"`

	// MaxConnsTotal is the maximum total concurrent connections.
	// 0 means unlimited.
	MaxConnsTotal int `yaml:"max_conns_total"`

	// RateLimit throttles failed authentication attempts.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds rate limiting settings for auth attempts.
type RateLimitConfig struct {
	// MaxAttempts is the maximum failed auth attempts before lockout.
	MaxAttempts int `yaml:"max_attempts"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds is the maximum lockout duration (for exponential backoff).
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// StoreConfig selects the backing database.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn"`
}

// DefaultConfig returns a ServiceConfig with secure defaults.
func DefaultConfig() *ServiceConfig {
	gen := walkgen.DefaultConfig()

	return &ServiceConfig{
		Generation: GenerationConfig{
			WalkSteps:     gen.WalkSteps,
			StampSize:     gen.StampSize,
			MinFloorTiles: gen.MinFloorTiles,
			MaxAttempts:   gen.MaxAttempts,
			StartX:        gen.Start.X,
			StartY:        gen.Start.Y,
			MaxWalkSteps:  10000, // Default: cap runaway generation requests
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
			RequireAuth:    false,
			MaxConnsPerIP:  3,   // Default: 3 connections per IP
			MaxConnsTotal:  100, // Default: 100 total connections
			RateLimit: RateLimitConfig{
				MaxAttempts:       5,   // Default: 5 attempts before lockout
				LockoutSeconds:    30,  // Default: 30 second initial lockout
				MaxLockoutSeconds: 300, // Default: 5 minute max lockout
			},
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "data/gridwalk.db",
		},
	}
}

// LoadConfig loads service configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*ServiceConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks that the configuration is usable. Generation parameters
// are checked with the same rules the generator applies.
func (c *ServiceConfig) Validate() error {
	if err := c.Generation.ToWalkConfig(0).Validate(); err != nil {
		return err
	}
	if c.Generation.MaxWalkSteps < 0 {
		return fmt.Errorf("generation max_walk_steps cannot be negative: %d", c.Generation.MaxWalkSteps)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen_addr cannot be empty")
	}
	if c.Server.MaxMessageSize <= 0 {
		return fmt.Errorf("server max_message_size must be positive: %d", c.Server.MaxMessageSize)
	}
	if c.Server.MaxConnsPerIP < 0 {
		return fmt.Errorf("server max_conns_per_ip cannot be negative: %d", c.Server.MaxConnsPerIP)
	}
	if c.Server.MaxConnsTotal < 0 {
		return fmt.Errorf("server max_conns_total cannot be negative: %d", c.Server.MaxConnsTotal)
	}
	return nil
}

// ToWalkConfig maps the generation defaults to a generator configuration
// with the given seed.
func (g *GenerationConfig) ToWalkConfig(seed int64) walkgen.Config {
	return walkgen.Config{
		WalkSteps:     g.WalkSteps,
		StampSize:     g.StampSize,
		MinFloorTiles: g.MinFloorTiles,
		MaxAttempts:   g.MaxAttempts,
		Start:         walkgen.Coord{X: g.StartX, Y: g.StartY},
		Seed:          seed,
	}
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *ServerConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		// Wildcard allows all origins
		if allowed == "*" {
			return true
		}
		// Exact match
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	// Remove trailing slash if present
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
