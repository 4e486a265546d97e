package walkgen

// neighborOffsets covers the eight cells surrounding a coordinate, diagonals
// included. Wall derivation uses all eight so that the boundary is closed
// around corners; the walk itself only ever moves cardinally.
var neighborOffsets = [8]Coord{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// DeriveWalls returns every cell that touches the floor without being floor
// itself. The result is disjoint from the input and forms a closed boundary:
// each floor cell's eight neighbors are all either floor or wall.
func DeriveWalls(floor CoordSet) CoordSet {
	walls := NewCoordSet()
	for cell := range floor {
		for _, off := range neighborOffsets {
			n := cell.Add(off)
			if !floor.Contains(n) {
				walls.Add(n)
			}
		}
	}
	return walls
}
