package walkgen

import (
	"fmt"
	"sort"
)

// Coord identifies a single cell on the level grid. The grid is unbounded;
// negative coordinates are as valid as positive ones.
type Coord struct {
	X, Y int
}

// Add returns the coordinate offset by o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Neighbor returns the adjacent coordinate in the given direction.
func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(d.Delta())
}

// String returns the coordinate as "x,y"
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Direction represents a cardinal direction on the grid
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Delta returns the unit offset for a single step in this direction.
// North decreases Y, matching screen-style row ordering.
func (d Direction) Delta() Coord {
	switch d {
	case North:
		return Coord{X: 0, Y: -1}
	case East:
		return Coord{X: 1, Y: 0}
	case South:
		return Coord{X: 0, Y: 1}
	case West:
		return Coord{X: -1, Y: 0}
	default:
		return Coord{}
	}
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// CoordSet is an unordered set of grid coordinates.
type CoordSet map[Coord]struct{}

// NewCoordSet creates an empty coordinate set
func NewCoordSet() CoordSet {
	return make(CoordSet)
}

// Add inserts a coordinate into the set
func (s CoordSet) Add(c Coord) {
	s[c] = struct{}{}
}

// Contains returns true if the coordinate is in the set
func (s CoordSet) Contains(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of coordinates in the set
func (s CoordSet) Len() int {
	return len(s)
}

// Sorted returns the coordinates ordered by Y then X. Iterating a map is
// nondeterministic; anything that renders, persists, or places content walks
// the sorted form instead.
func (s CoordSet) Sorted() []Coord {
	coords := make([]Coord, 0, len(s))
	for c := range s {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}

// Bounds returns the smallest rectangle covering the set. ok is false for an
// empty set.
func (s CoordSet) Bounds() (min, max Coord, ok bool) {
	first := true
	for c := range s {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	}
	return min, max, !first
}
