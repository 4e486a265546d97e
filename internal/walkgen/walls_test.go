package walkgen

import (
	"math/rand"
	"testing"
)

func TestDeriveWallsSingleCell(t *testing.T) {
	floor := NewCoordSet()
	floor.Add(Coord{X: 0, Y: 0})

	walls := DeriveWalls(floor)

	if walls.Len() != 8 {
		t.Fatalf("walls has %d cells, want 8", walls.Len())
	}

	want := []Coord{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	for _, c := range want {
		if !walls.Contains(c) {
			t.Errorf("walls missing %v", c)
		}
	}
}

func TestDeriveWallsAdjacentPair(t *testing.T) {
	floor := NewCoordSet()
	floor.Add(Coord{X: 0, Y: 0})
	floor.Add(Coord{X: 1, Y: 0})

	walls := DeriveWalls(floor)

	// A 2x1 floor strip is ringed by a 4x3 box minus the strip itself
	if walls.Len() != 10 {
		t.Errorf("walls has %d cells, want 10", walls.Len())
	}

	if walls.Contains(Coord{X: 0, Y: 0}) || walls.Contains(Coord{X: 1, Y: 0}) {
		t.Error("walls must not contain floor cells")
	}
}

func TestDeriveWallsEmptyFloor(t *testing.T) {
	walls := DeriveWalls(NewCoordSet())

	if walls.Len() != 0 {
		t.Errorf("walls of empty floor has %d cells, want 0", walls.Len())
	}
}

func TestDeriveWallsDisjoint(t *testing.T) {
	cfg := Config{WalkSteps: 300, StampSize: 1, Start: Coord{X: 0, Y: 0}}
	floor := NewWalker(cfg, rand.New(rand.NewSource(5))).Walk()

	walls := DeriveWalls(floor)

	for c := range walls {
		if floor.Contains(c) {
			t.Errorf("cell %v is both floor and wall", c)
		}
	}
}

func TestDeriveWallsClosedBoundary(t *testing.T) {
	cfg := Config{WalkSteps: 300, StampSize: 1, Start: Coord{X: 0, Y: 0}}
	floor := NewWalker(cfg, rand.New(rand.NewSource(6))).Walk()

	walls := DeriveWalls(floor)

	// Every neighbor of every floor cell must be accounted for
	for c := range floor {
		for _, off := range neighborOffsets {
			n := c.Add(off)
			if !floor.Contains(n) && !walls.Contains(n) {
				t.Errorf("neighbor %v of floor cell %v is neither floor nor wall", n, c)
			}
		}
	}
}

func TestDeriveWallsTouchFloor(t *testing.T) {
	cfg := Config{WalkSteps: 200, StampSize: 0, Start: Coord{X: 0, Y: 0}}
	floor := NewWalker(cfg, rand.New(rand.NewSource(7))).Walk()

	walls := DeriveWalls(floor)

	// No wall may appear more than one cell away from the floor
	for c := range walls {
		touches := false
		for _, off := range neighborOffsets {
			if floor.Contains(c.Add(off)) {
				touches = true
				break
			}
		}
		if !touches {
			t.Errorf("wall %v has no adjacent floor cell", c)
		}
	}
}
