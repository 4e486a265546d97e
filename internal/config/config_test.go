package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if len(cfg.Server.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Server.AllowedOrigins)
	}

	if cfg.Server.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.Server.MaxMessageSize)
	}

	if cfg.Server.ListenAddr == "" {
		t.Error("expected non-empty listen address by default")
	}

	// Generation defaults line up with the generator's own defaults
	gen := walkgen.DefaultConfig()
	if cfg.Generation.WalkSteps != gen.WalkSteps {
		t.Errorf("expected walk steps %d, got %d", gen.WalkSteps, cfg.Generation.WalkSteps)
	}
	if cfg.Generation.MinFloorTiles != gen.MinFloorTiles {
		t.Errorf("expected min floor tiles %d, got %d", gen.MinFloorTiles, cfg.Generation.MinFloorTiles)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	// Should return defaults
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected default sqlite driver, got %s", cfg.Store.Driver)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "service.yaml")

	content := `
generation:
  walk_steps: 800
  min_floor_tiles: 200
server:
  listen_addr: ":9090"
  allowed_origins:
    - "https://example.com"
    - "http://localhost:3000"
  require_auth: true
store:
  driver: postgres
  dsn: "host=localhost dbname=gridwalk sslmode=disable"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.WalkSteps != 800 {
		t.Errorf("expected walk steps 800, got %d", cfg.Generation.WalkSteps)
	}

	if cfg.Generation.MinFloorTiles != 200 {
		t.Errorf("expected min floor tiles 200, got %d", cfg.Generation.MinFloorTiles)
	}

	// Unset fields keep their defaults
	if cfg.Generation.MaxAttempts != walkgen.DefaultConfig().MaxAttempts {
		t.Errorf("expected default max attempts, got %d", cfg.Generation.MaxAttempts)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("expected listen addr ':9090', got %s", cfg.Server.ListenAddr)
	}

	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.Server.AllowedOrigins))
	}

	if !cfg.Server.RequireAuth {
		t.Error("expected require_auth to be true")
	}

	if cfg.Store.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Store.Driver)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "service.yaml")

	if err := os.WriteFile(configPath, []byte("generation: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}

	// Still hands back usable defaults
	if cfg == nil {
		t.Fatal("expected default config alongside the error, got nil")
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected default sqlite driver, got %s", cfg.Store.Driver)
	}
}

func TestValidate_BadGeneration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generation.WalkSteps = 0

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero walk steps")
	}
}

func TestValidate_BadServer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
	}{
		{"empty listen addr", func(c *ServiceConfig) { c.Server.ListenAddr = "" }},
		{"zero message size", func(c *ServiceConfig) { c.Server.MaxMessageSize = 0 }},
		{"negative per-ip limit", func(c *ServiceConfig) { c.Server.MaxConnsPerIP = -1 }},
		{"negative total limit", func(c *ServiceConfig) { c.Server.MaxConnsTotal = -2 }},
		{"negative step cap", func(c *ServiceConfig) { c.Generation.MaxWalkSteps = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestToWalkConfig(t *testing.T) {
	gen := GenerationConfig{
		WalkSteps:     300,
		StampSize:     2,
		MinFloorTiles: 100,
		MaxAttempts:   50,
		StartX:        5,
		StartY:        -3,
	}

	cfg := gen.ToWalkConfig(777)

	if cfg.WalkSteps != 300 {
		t.Errorf("expected walk steps 300, got %d", cfg.WalkSteps)
	}
	if cfg.StampSize != 2 {
		t.Errorf("expected stamp size 2, got %d", cfg.StampSize)
	}
	if cfg.MinFloorTiles != 100 {
		t.Errorf("expected min floor tiles 100, got %d", cfg.MinFloorTiles)
	}
	if cfg.MaxAttempts != 50 {
		t.Errorf("expected max attempts 50, got %d", cfg.MaxAttempts)
	}
	if cfg.Start != (walkgen.Coord{X: 5, Y: -3}) {
		t.Errorf("expected start 5,-3, got %v", cfg.Start)
	}
	if cfg.Seed != 777 {
		t.Errorf("expected seed 777, got %d", cfg.Seed)
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := ServerConfig{
		AllowedOrigins: []string{},
	}

	// Same origin (no Origin header)
	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}

	// Same origin (matching host)
	if !cfg.IsOriginAllowed("http://localhost:4000", "localhost:4000") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}

	// Different origin should be rejected
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := ServerConfig{
		AllowedOrigins: []string{"*"},
	}

	// Wildcard allows everything
	if !cfg.IsOriginAllowed("http://anything.com", "localhost:4000") {
		t.Error("expected wildcard to allow any origin")
	}

	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected wildcard to allow empty origin")
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := ServerConfig{
		AllowedOrigins: []string{
			"https://example.com",
			"http://localhost:3000",
		},
	}

	// Exact matches
	if !cfg.IsOriginAllowed("https://example.com", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}

	if !cfg.IsOriginAllowed("http://localhost:3000", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}

	// Non-matching origin
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected non-matching origin to be rejected")
	}

	// Partial match should not work
	if cfg.IsOriginAllowed("https://example.com:8080", "localhost:4000") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},                       // No origin header
		{"http://localhost:4000", "localhost:4000", true},  // HTTP match
		{"https://localhost:4000", "localhost:4000", true}, // HTTPS match
		{"http://localhost:4000/", "localhost:4000", true}, // Trailing slash
		{"http://example.com", "localhost:4000", false},    // Different host
		{"http://localhost:3000", "localhost:4000", false}, // Different port
		{"ws://localhost:4000", "localhost:4000", true},    // WebSocket scheme
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
