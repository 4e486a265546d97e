package main

import (
	"fmt"
	"os"

	"github.com/lawnchairsociety/gridwalk/internal/level"
	"github.com/lawnchairsociety/gridwalk/internal/render"
	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

func main() {
	path := "data/level.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	lv, err := level.Load(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("Loaded %s\n", lv)
	fmt.Printf("Floor tiles: %d, wall tiles: %d\n", lv.Floor.Len(), lv.Walls.Len())

	// Check for the entrance room
	start := lv.StartRoom()
	if start == nil {
		fmt.Println("entrance room NOT FOUND")
	} else {
		fmt.Printf("Found entrance: %s at %s (features: %v)\n", start.Name, start.Cell, start.Features)
	}

	// Check exit symmetry
	fmt.Println("\n--- Checking exits ---")
	broken := 0
	for _, room := range lv.Rooms {
		for _, dir := range walkgen.AllDirections() {
			targetID, ok := room.Exits[dir.String()]
			if !ok {
				continue
			}
			target := lv.Rooms[targetID]
			if target == nil {
				fmt.Printf("  %s: exit %s points at missing room %s\n", room.ID, dir, targetID)
				broken++
				continue
			}
			if target.Exits[dir.Opposite().String()] != room.ID {
				fmt.Printf("  %s: exit %s has no return exit from %s\n", room.ID, dir, targetID)
				broken++
			}
		}
	}
	if broken == 0 {
		fmt.Println("All exits are symmetric")
	} else {
		fmt.Printf("%d broken exits\n", broken)
	}

	// Count rooms by kind
	kinds := make(map[level.RoomKind]int)
	for _, room := range lv.Rooms {
		kinds[room.Kind]++
	}
	fmt.Println("\n--- Room kinds ---")
	for _, k := range []level.RoomKind{level.KindIsolated, level.KindDeadEnd, level.KindPassage, level.KindChamber} {
		if kinds[k] > 0 {
			fmt.Printf("  %-8s %d\n", k, kinds[k])
		}
	}

	fmt.Println()
	fmt.Print(render.Grid(lv.Floor, lv.Walls, lv.Start, nil))
}
