package walkgen

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		WalkSteps:     100,
		StampSize:     1,
		MinFloorTiles: 10,
		MaxAttempts:   5,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero stamp size", func(c *Config) { c.StampSize = 0 }, false},
		{"max stamp size", func(c *Config) { c.StampSize = MaxStampSize }, false},
		{"zero walk steps", func(c *Config) { c.WalkSteps = 0 }, true},
		{"negative walk steps", func(c *Config) { c.WalkSteps = -5 }, true},
		{"negative stamp size", func(c *Config) { c.StampSize = -1 }, true},
		{"oversized stamp", func(c *Config) { c.StampSize = MaxStampSize + 1 }, true},
		{"zero min floor tiles", func(c *Config) { c.MinFloorTiles = 0 }, true},
		{"negative min floor tiles", func(c *Config) { c.MinFloorTiles = -1 }, true},
		{"zero max attempts", func(c *Config) { c.MaxAttempts = 0 }, true},
		{"negative max attempts", func(c *Config) { c.MaxAttempts = -3 }, true},
	}

	for _, tc := range tests {
		cfg := valid
		tc.mutate(&cfg)

		err := cfg.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: Validate() = nil, want error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: Validate() = %v, want nil", tc.name, err)
		}
		if tc.wantErr && err != nil && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: error %v should wrap ErrInvalidConfig", tc.name, err)
		}
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}

	// The default minimum must be reachable or generation could never succeed
	if cfg.MinFloorTiles > cfg.MaxFloorTiles() {
		t.Errorf("default MinFloorTiles %d exceeds max possible %d", cfg.MinFloorTiles, cfg.MaxFloorTiles())
	}
}

func TestConfigMaxFloorTiles(t *testing.T) {
	tests := []struct {
		steps, stamp int
		want         int
	}{
		{1, 0, 1},
		{1, 1, 9},
		{10, 0, 10},
		{10, 1, 90},
		{5, 2, 125},
		{3, 3, 147},
	}

	for _, tc := range tests {
		cfg := Config{WalkSteps: tc.steps, StampSize: tc.stamp}
		if got := cfg.MaxFloorTiles(); got != tc.want {
			t.Errorf("MaxFloorTiles(steps=%d, stamp=%d) = %d, want %d", tc.steps, tc.stamp, got, tc.want)
		}
	}
}
