package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/lawnchairsociety/gridwalk/internal/level"
	"github.com/lawnchairsociety/gridwalk/internal/render"
	"github.com/lawnchairsociety/gridwalk/internal/spawn"
	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

func main() {
	defaults := walkgen.DefaultConfig()

	seed := flag.Int64("seed", 0, "Generation seed (default: random based on current time)")
	steps := flag.Int("steps", defaults.WalkSteps, "Number of walk steps")
	stamp := flag.Int("stamp", defaults.StampSize, "Stamp half-extent (0 = single cell, 1 = 3x3)")
	minTiles := flag.Int("min-tiles", defaults.MinFloorTiles, "Minimum floor tiles to accept a level")
	attempts := flag.Int("attempts", defaults.MaxAttempts, "Maximum generation attempts")
	startX := flag.Int("start-x", 0, "Walk start X coordinate")
	startY := flag.Int("start-y", 0, "Walk start Y coordinate")
	name := flag.String("name", "level", "Level name used for generated rooms")
	output := flag.String("output", "", "Write the level and its rooms to this YAML file")
	legend := flag.Bool("legend", false, "Print the map legend")
	enemies := flag.Float64("enemies", 0, "Enemy spawn density between 0 and 1 (0 disables)")
	loot := flag.Int("loot", 0, "Number of loot drops to place (0 disables)")
	quiet := flag.Bool("quiet", false, "Only print the rendered map")
	flag.Parse()

	// Materialize the seed so random runs are reproducible afterwards
	levelSeed := *seed
	if levelSeed == 0 {
		levelSeed = time.Now().UnixNano()
	}

	cfg := walkgen.Config{
		WalkSteps:     *steps,
		StampSize:     *stamp,
		MinFloorTiles: *minTiles,
		MaxAttempts:   *attempts,
		Start:         walkgen.Coord{X: *startX, Y: *startY},
		Seed:          levelSeed,
	}

	gen := walkgen.NewGenerator(cfg)

	// Spawners draw from their own stream so map layout stays seed-stable
	// whether or not spawns are requested
	spawnRng := rand.New(rand.NewSource(levelSeed))
	var enemySpawner *spawn.EnemySpawner
	var lootSpawner *spawn.LootSpawner
	if *enemies > 0 {
		enemySpawner = spawn.NewEnemySpawner(spawn.DefaultEnemies(), *enemies, spawn.DefaultSafeRadius, spawnRng)
		gen.AddConsumer(enemySpawner)
	}
	if *loot > 0 {
		lootSpawner = spawn.NewLootSpawner(spawn.DefaultLoot(), *loot, spawnRng)
		gen.AddConsumer(lootSpawner)
	}

	if !*quiet {
		fmt.Printf("Generating level (seed: %d)\n\n", levelSeed)
	}

	lv, err := gen.Generate()
	if err != nil {
		var exhausted *walkgen.ExhaustedError
		if errors.As(err, &exhausted) {
			fmt.Fprintf(os.Stderr, "Error: no acceptable level after %d attempts (want at least %d floor tiles)\n",
				exhausted.Attempts, cfg.MinFloorTiles)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	marks := make(map[walkgen.Coord]rune)
	if enemySpawner != nil {
		for _, p := range enemySpawner.Placements() {
			marks[p.Cell] = 'E'
		}
	}
	if lootSpawner != nil {
		for _, p := range lootSpawner.Placements() {
			marks[p.Cell] = '$'
		}
	}

	fmt.Print(render.Grid(lv.Floor, lv.Walls, lv.Start, marks))

	if *legend {
		fmt.Print(render.Legend())
	}

	if !*quiet {
		fmt.Println()
		fmt.Println(render.Summary(lv, levelSeed))
		if enemySpawner != nil {
			fmt.Printf("Enemies placed: %d\n", len(enemySpawner.Placements()))
		}
		if lootSpawner != nil {
			fmt.Printf("Loot placed: %d\n", len(lootSpawner.Placements()))
		}
	}

	if *output != "" {
		built := level.Build(*name, levelSeed, cfg, lv)
		if err := level.Save(built, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save level: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Printf("Level written to %s (%d rooms)\n", *output, built.RoomCount())
		}
	}
}
