package walkgen

import "fmt"

// MaxStampSize is the largest allowed stamp radius. A radius of 3 already
// carves a 7x7 block per step; anything wider stops looking like a walk.
const MaxStampSize = 3

// Config contains parameters for level generation
type Config struct {
	WalkSteps     int   // Number of stamp-then-step iterations
	StampSize     int   // Stamp radius; each stamp covers a (2s+1)x(2s+1) square
	MinFloorTiles int   // Minimum floor tiles for an attempt to be accepted
	MaxAttempts   int   // Attempt ceiling before generation gives up
	Start         Coord // Cell the walk begins on
	Seed          int64 // RNG seed; 0 picks a time-based seed
}

// DefaultConfig returns reasonable defaults for a mid-sized level
func DefaultConfig() Config {
	return Config{
		WalkSteps:     500,
		StampSize:     1,
		MinFloorTiles: 150,
		MaxAttempts:   100,
		Start:         Coord{X: 0, Y: 0},
		Seed:          0,
	}
}

// Validate checks the configuration. Out-of-range values are rejected, never
// clamped.
func (c Config) Validate() error {
	if c.WalkSteps <= 0 {
		return fmt.Errorf("%w: walk steps must be positive, got %d", ErrInvalidConfig, c.WalkSteps)
	}
	if c.StampSize < 0 || c.StampSize > MaxStampSize {
		return fmt.Errorf("%w: stamp size must be between 0 and %d, got %d", ErrInvalidConfig, MaxStampSize, c.StampSize)
	}
	if c.MinFloorTiles <= 0 {
		return fmt.Errorf("%w: min floor tiles must be positive, got %d", ErrInvalidConfig, c.MinFloorTiles)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// MaxFloorTiles returns the upper bound on floor tiles a single attempt can
// carve: every stamp lands on fresh cells and nothing overlaps.
func (c Config) MaxFloorTiles() int {
	side := 2*c.StampSize + 1
	return c.WalkSteps * side * side
}
