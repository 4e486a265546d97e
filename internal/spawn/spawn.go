package spawn

import (
	"math/rand"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// DefaultSafeRadius keeps spawns out of the cells immediately around the
// start so a player never materializes next to an enemy.
const DefaultSafeRadius = 3

// Placement kinds
const (
	KindEnemy = "enemy"
	KindLoot  = "loot"
)

// Placement pins a spawned entity to a floor cell
type Placement struct {
	Cell walkgen.Coord
	Kind string
	Name string
}

// EnemyDef describes one enemy type and its relative spawn weight
type EnemyDef struct {
	Name   string
	Weight int
}

// DefaultEnemies returns a small stock table of enemy types
func DefaultEnemies() []EnemyDef {
	return []EnemyDef{
		{Name: "giant rat", Weight: 5},
		{Name: "cave spider", Weight: 3},
		{Name: "skeleton", Weight: 2},
		{Name: "ooze", Weight: 1},
	}
}

// EnemySpawner places enemies across the floor, avoiding the area around the
// start. It implements walkgen.FloorConsumer so it can hang off a generator.
type EnemySpawner struct {
	defs       []EnemyDef
	density    float64 // Spawn chance per eligible cell
	safeRadius int
	rng        *rand.Rand

	placements []Placement
}

// NewEnemySpawner creates an enemy spawner. The spawner draws from the given
// random source, so seeded runs place identically.
func NewEnemySpawner(defs []EnemyDef, density float64, safeRadius int, rng *rand.Rand) *EnemySpawner {
	return &EnemySpawner{
		defs:       defs,
		density:    density,
		safeRadius: safeRadius,
		rng:        rng,
	}
}

// ConsumeFloor records enemy placements for the generated floor
func (s *EnemySpawner) ConsumeFloor(floor walkgen.CoordSet, start walkgen.Coord) {
	s.placements = s.PlaceEnemies(floor, start)
}

// Placements returns the placements from the most recent floor
func (s *EnemySpawner) Placements() []Placement {
	return s.placements
}

// PlaceEnemies rolls a spawn for every floor cell outside the safe radius.
// Cells are visited in sorted order so the same rng stream always yields the
// same placements.
func (s *EnemySpawner) PlaceEnemies(floor walkgen.CoordSet, start walkgen.Coord) []Placement {
	if len(s.defs) == 0 || s.density <= 0 {
		return nil
	}

	var placed []Placement
	for _, cell := range floor.Sorted() {
		if chebyshev(cell, start) <= s.safeRadius {
			continue
		}
		if s.rng.Float64() >= s.density {
			continue
		}

		placed = append(placed, Placement{
			Cell: cell,
			Kind: KindEnemy,
			Name: s.pickEnemy(),
		})
	}

	return placed
}

// pickEnemy selects a definition by weight
func (s *EnemySpawner) pickEnemy() string {
	total := 0
	for _, def := range s.defs {
		total += def.Weight
	}
	if total <= 0 {
		return s.defs[0].Name
	}

	roll := s.rng.Intn(total)
	for _, def := range s.defs {
		roll -= def.Weight
		if roll < 0 {
			return def.Name
		}
	}
	return s.defs[len(s.defs)-1].Name
}

// LootSpawner drops collectibles, preferring dead-end cells where a walk
// naturally rewards exploration. It implements walkgen.FloorConsumer.
type LootSpawner struct {
	names []string
	count int
	rng   *rand.Rand

	placements []Placement
}

// DefaultLoot returns the stock loot names
func DefaultLoot() []string {
	return []string{"treasure chest", "gold pile", "ancient relic"}
}

// NewLootSpawner creates a loot spawner that drops up to count items
func NewLootSpawner(names []string, count int, rng *rand.Rand) *LootSpawner {
	return &LootSpawner{
		names: names,
		count: count,
		rng:   rng,
	}
}

// ConsumeFloor records loot placements for the generated floor
func (s *LootSpawner) ConsumeFloor(floor walkgen.CoordSet, start walkgen.Coord) {
	s.placements = s.PlaceLoot(floor, start)
}

// Placements returns the placements from the most recent floor
func (s *LootSpawner) Placements() []Placement {
	return s.placements
}

// PlaceLoot places items at shuffled dead ends first, then falls back to any
// remaining floor cell. The start cell never receives loot.
func (s *LootSpawner) PlaceLoot(floor walkgen.CoordSet, start walkgen.Coord) []Placement {
	if len(s.names) == 0 || s.count <= 0 {
		return nil
	}

	deadEnds := FindDeadEnds(floor)
	s.rng.Shuffle(len(deadEnds), func(i, j int) {
		deadEnds[i], deadEnds[j] = deadEnds[j], deadEnds[i]
	})

	used := walkgen.NewCoordSet()
	var placed []Placement

	place := func(cell walkgen.Coord) {
		placed = append(placed, Placement{
			Cell: cell,
			Kind: KindLoot,
			Name: s.names[s.rng.Intn(len(s.names))],
		})
		used.Add(cell)
	}

	for _, cell := range deadEnds {
		if len(placed) >= s.count {
			break
		}
		if cell == start {
			continue
		}
		place(cell)
	}

	if len(placed) < s.count {
		// Not enough dead ends; spread the rest over the open floor
		rest := floor.Sorted()
		s.rng.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		for _, cell := range rest {
			if len(placed) >= s.count {
				break
			}
			if cell == start || used.Contains(cell) {
				continue
			}
			place(cell)
		}
	}

	return placed
}

// FindDeadEnds returns floor cells with exactly one cardinal floor neighbor,
// in sorted order.
func FindDeadEnds(floor walkgen.CoordSet) []walkgen.Coord {
	var deadEnds []walkgen.Coord
	for _, cell := range floor.Sorted() {
		exits := 0
		for _, dir := range walkgen.AllDirections() {
			if floor.Contains(cell.Neighbor(dir)) {
				exits++
			}
		}
		if exits == 1 {
			deadEnds = append(deadEnds, cell)
		}
	}
	return deadEnds
}

// chebyshev returns the chessboard distance between two cells
func chebyshev(a, b walkgen.Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
