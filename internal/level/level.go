package level

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// RoomKind classifies a floor cell by how many cardinal floor neighbors it has
type RoomKind int

const (
	KindIsolated RoomKind = iota // No exits (single-cell level)
	KindDeadEnd                  // One exit
	KindPassage                  // Two exits
	KindChamber                  // Three or more exits
)

// String returns the string representation of a RoomKind
func (k RoomKind) String() string {
	switch k {
	case KindIsolated:
		return "isolated"
	case KindDeadEnd:
		return "dead_end"
	case KindPassage:
		return "passage"
	case KindChamber:
		return "chamber"
	default:
		return "unknown"
	}
}

// ParseRoomKind converts a string back to a RoomKind
func ParseRoomKind(s string) (RoomKind, bool) {
	switch s {
	case "isolated":
		return KindIsolated, true
	case "dead_end":
		return KindDeadEnd, true
	case "passage":
		return KindPassage, true
	case "chamber":
		return KindChamber, true
	default:
		return KindIsolated, false
	}
}

// Room is one floor cell made navigable
type Room struct {
	ID          string
	Name        string
	Description string
	Kind        RoomKind
	Cell        walkgen.Coord
	Features    []string
	Exits       map[string]string // direction -> room ID
}

// AddFeature adds a feature tag to the room if not already present
func (r *Room) AddFeature(feature string) {
	for _, f := range r.Features {
		if f == feature {
			return
		}
	}
	r.Features = append(r.Features, feature)
}

// HasFeature returns true if the room carries the given feature tag
func (r *Room) HasFeature(feature string) bool {
	for _, f := range r.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Level is a generated layout built out into a room graph
type Level struct {
	Name        string
	Seed        int64
	Config      walkgen.Config
	Attempts    int
	GeneratedAt time.Time
	Start       walkgen.Coord
	Floor       walkgen.CoordSet
	Walls       walkgen.CoordSet
	Rooms       map[string]*Room
}

// RoomID generates the room ID for a cell within a named level
func RoomID(levelName string, c walkgen.Coord) string {
	return fmt.Sprintf("%s_%d_%d", levelName, c.X, c.Y)
}

// Build converts a generated layout into a room graph. Every floor cell
// becomes a room; exits link cardinal floor neighbors in both directions.
// The start cell is tagged with the entrance feature.
func Build(name string, seed int64, cfg walkgen.Config, generated *walkgen.Level) *Level {
	lv := &Level{
		Name:        name,
		Seed:        seed,
		Config:      cfg,
		Attempts:    generated.Attempts,
		GeneratedAt: time.Now(),
		Start:       generated.Start,
		Floor:       generated.Floor,
		Walls:       generated.Walls,
		Rooms:       make(map[string]*Room, generated.Floor.Len()),
	}

	for _, cell := range generated.Floor.Sorted() {
		exits := make(map[string]string)
		for _, dir := range walkgen.AllDirections() {
			n := cell.Neighbor(dir)
			if generated.Floor.Contains(n) {
				exits[dir.String()] = RoomID(name, n)
			}
		}

		kind := classify(len(exits))
		room := &Room{
			ID:          RoomID(name, cell),
			Name:        roomName(kind),
			Description: roomDescription(kind),
			Kind:        kind,
			Cell:        cell,
			Exits:       exits,
		}

		if cell == generated.Start {
			room.AddFeature("entrance")
			room.Description = fmt.Sprintf("%s Daylight filters in from the entrance here.", room.Description)
		}

		lv.Rooms[room.ID] = room
	}

	return lv
}

// classify maps a cardinal exit count to a room kind
func classify(exits int) RoomKind {
	switch {
	case exits == 0:
		return KindIsolated
	case exits == 1:
		return KindDeadEnd
	case exits == 2:
		return KindPassage
	default:
		return KindChamber
	}
}

// RoomAt returns the room occupying the given cell, or nil
func (l *Level) RoomAt(c walkgen.Coord) *Room {
	return l.Rooms[RoomID(l.Name, c)]
}

// StartRoom returns the room at the start cell
func (l *Level) StartRoom() *Room {
	return l.RoomAt(l.Start)
}

// RoomCount returns the number of rooms in the level
func (l *Level) RoomCount() int {
	return len(l.Rooms)
}

// String returns a short description of the level
func (l *Level) String() string {
	return fmt.Sprintf("%s: %d rooms (seed %d, attempt %d)", l.Name, len(l.Rooms), l.Seed, l.Attempts)
}

// roomName creates a name for a room based on its kind
func roomName(kind RoomKind) string {
	switch kind {
	case KindDeadEnd:
		return "Dead End"
	case KindPassage:
		return "Winding Passage"
	case KindChamber:
		return "Open Chamber"
	case KindIsolated:
		return "Sealed Hollow"
	default:
		return "Unknown Cavern"
	}
}

// roomDescription creates a description for a room based on its kind
func roomDescription(kind RoomKind) string {
	switch kind {
	case KindDeadEnd:
		return "The passage ends here in a cramped pocket of stone. Dust motes drift in the stale air."
	case KindPassage:
		return "A narrow passage winds through the rock. The walls press close on either side."
	case KindChamber:
		return "The cave opens into a wider chamber here. Every sound echoes away into the dark."
	case KindIsolated:
		return "A sealed hollow in the rock. No passage leads away from here."
	default:
		return "You are somewhere beneath the earth."
	}
}
