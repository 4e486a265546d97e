package walkgen

import "math/rand"

// Walker carves floor cells with a drunkard's walk: stamp a square around the
// current cell, step one cell in a random cardinal direction, repeat.
type Walker struct {
	steps     int
	stampSize int
	start     Coord
	rng       *rand.Rand
}

// NewWalker creates a walker for the given configuration. The walker draws
// from the supplied random source and never reseeds it, so consecutive walks
// continue the same stream.
func NewWalker(config Config, rng *rand.Rand) *Walker {
	return &Walker{
		steps:     config.WalkSteps,
		stampSize: config.StampSize,
		start:     config.Start,
		rng:       rng,
	}
}

// Walk runs one full walk and returns the carved floor cells. Every call
// starts from a fresh set; nothing carries over from earlier walks.
func (w *Walker) Walk() CoordSet {
	floor := NewCoordSet()
	current := w.start

	for i := 0; i < w.steps; i++ {
		w.stamp(floor, current)
		current = current.Neighbor(w.randomDirection())
	}

	return floor
}

// stamp adds the (2s+1)x(2s+1) square centered on the given cell. Cells
// already present are simply re-added; the set absorbs overlap.
func (w *Walker) stamp(floor CoordSet, center Coord) {
	for dy := -w.stampSize; dy <= w.stampSize; dy++ {
		for dx := -w.stampSize; dx <= w.stampSize; dx++ {
			floor.Add(Coord{X: center.X + dx, Y: center.Y + dy})
		}
	}
}

// randomDirection picks one of the four cardinal directions uniformly
func (w *Walker) randomDirection() Direction {
	return Direction(w.rng.Intn(4))
}
