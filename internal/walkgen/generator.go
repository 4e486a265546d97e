// Package walkgen generates connected 2D grid levels with a stamped random
// walk. A walker carves floor cells, walls are derived around them, and a
// generator retries the walk until an attempt reaches the configured minimum
// floor size or the attempt limit runs out.
package walkgen

import (
	"math/rand"
	"time"
)

// Level is the output of a successful generation run
type Level struct {
	Floor    CoordSet // Walkable cells carved by the walk
	Walls    CoordSet // Boundary cells, disjoint from Floor
	Start    Coord    // Cell the walk began on, always in Floor
	Attempts int      // 1-based attempt number that produced this level
}

// FloorConsumer receives the floor layout of each successfully generated
// level. Consumers are optional collaborators; generation succeeds or fails
// the same way with none registered.
type FloorConsumer interface {
	ConsumeFloor(floor CoordSet, start Coord)
}

// Generator runs walk attempts until one produces enough floor
type Generator struct {
	config    Config
	rng       *rand.Rand
	consumers []FloorConsumer
}

// NewGenerator creates a generator for the given configuration. A zero seed
// falls back to the current time.
func NewGenerator(config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SetRand replaces the generator's random source. Tests use this to line up
// the walk with a known stream.
func (g *Generator) SetRand(rng *rand.Rand) {
	g.rng = rng
}

// AddConsumer registers a collaborator to notify after each successful
// generation. Consumers run in registration order.
func (g *Generator) AddConsumer(c FloorConsumer) {
	g.consumers = append(g.consumers, c)
}

// Config returns the generator's configuration
func (g *Generator) Config() Config {
	return g.config
}

// Generate runs up to MaxAttempts walks and returns the first level whose
// floor reaches MinFloorTiles. The configuration is validated before the
// first attempt. Each attempt discards the previous one entirely; only the
// random stream advances across attempts, which is what makes them differ.
// After the last failed attempt the returned error is an *ExhaustedError.
func (g *Generator) Generate() (*Level, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	walker := NewWalker(g.config, g.rng)

	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		floor := walker.Walk()
		if floor.Len() < g.config.MinFloorTiles {
			continue
		}

		level := &Level{
			Floor:    floor,
			Walls:    DeriveWalls(floor),
			Start:    g.config.Start,
			Attempts: attempt,
		}

		for _, c := range g.consumers {
			c.ConsumeFloor(level.Floor, level.Start)
		}

		return level, nil
	}

	return nil, &ExhaustedError{Attempts: g.config.MaxAttempts, Config: g.config}
}
