package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// Map symbols
const (
	SymbolStart = '@'
	SymbolFloor = '.'
	SymbolWall  = '#'
	SymbolEmpty = ' '
)

// Map renders a generated level as an ASCII grid, rows running north to
// south.
func Map(level *walkgen.Level) string {
	return Grid(level.Floor, level.Walls, level.Start, nil)
}

// Grid renders floor and wall sets with optional per-cell overlay marks.
// Marks draw over floor cells; the start cell always wins.
func Grid(floor, walls walkgen.CoordSet, start walkgen.Coord, marks map[walkgen.Coord]rune) string {
	bounds := walkgen.NewCoordSet()
	for c := range floor {
		bounds.Add(c)
	}
	for c := range walls {
		bounds.Add(c)
	}

	min, max, ok := bounds.Bounds()
	if !ok {
		return ""
	}

	var output strings.Builder
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			c := walkgen.Coord{X: x, Y: y}
			switch {
			case c == start && floor.Contains(c):
				output.WriteRune(SymbolStart)
			case marks[c] != 0 && floor.Contains(c):
				output.WriteRune(marks[c])
			case floor.Contains(c):
				output.WriteRune(SymbolFloor)
			case walls.Contains(c):
				output.WriteRune(SymbolWall)
			default:
				output.WriteRune(SymbolEmpty)
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}

// Summary returns a one-line description of a generated level
func Summary(level *walkgen.Level, seed int64) string {
	min, max, _ := level.Walls.Bounds()
	return fmt.Sprintf("Level (seed %d): %d floor tiles, %d wall tiles, %dx%d bounds, attempt %d",
		seed, level.Floor.Len(), level.Walls.Len(), max.X-min.X+1, max.Y-min.Y+1, level.Attempts)
}

// Legend returns the symbol key for rendered maps
func Legend() string {
	return `
Legend:
  [@] Start cell
  [.] Floor
  [#] Wall
  [E] Enemy spawn
  [$] Loot drop
`
}

// MapWriter renders each successfully generated floor to Out. It implements
// walkgen.FloorConsumer, so it only ever sees accepted levels.
type MapWriter struct {
	Out io.Writer
}

// ConsumeFloor derives the walls again and writes the rendered grid
func (m *MapWriter) ConsumeFloor(floor walkgen.CoordSet, start walkgen.Coord) {
	fmt.Fprint(m.Out, Grid(floor, walkgen.DeriveWalls(floor), start, nil))
}
