package level

import (
	"fmt"
	"os"
	"time"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
	"gopkg.in/yaml.v3"
)

// LevelData represents the serialized level structure for persistence
type LevelData struct {
	Name        string     `yaml:"name"`
	Seed        int64      `yaml:"seed"`
	Config      ConfigData `yaml:"config"`
	Attempts    int        `yaml:"attempts"`
	GeneratedAt time.Time  `yaml:"generated_at"`
	SavedAt     time.Time  `yaml:"saved_at"`
	StartX      int        `yaml:"start_x"`
	StartY      int        `yaml:"start_y"`
	Rooms       []RoomData `yaml:"rooms"`
}

// ConfigData represents the serialized generation parameters
type ConfigData struct {
	WalkSteps     int `yaml:"walk_steps"`
	StampSize     int `yaml:"stamp_size"`
	MinFloorTiles int `yaml:"min_floor_tiles"`
	MaxAttempts   int `yaml:"max_attempts"`
}

// RoomData represents a serialized room
type RoomData struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Kind        string            `yaml:"kind"`
	X           int               `yaml:"x"`
	Y           int               `yaml:"y"`
	Features    []string          `yaml:"features,omitempty"`
	Exits       map[string]string `yaml:"exits"` // direction -> room_id
}

// Save writes the level to a YAML file
func Save(l *Level, filename string) error {
	data := LevelData{
		Name: l.Name,
		Seed: l.Seed,
		Config: ConfigData{
			WalkSteps:     l.Config.WalkSteps,
			StampSize:     l.Config.StampSize,
			MinFloorTiles: l.Config.MinFloorTiles,
			MaxAttempts:   l.Config.MaxAttempts,
		},
		Attempts:    l.Attempts,
		GeneratedAt: l.GeneratedAt,
		SavedAt:     time.Now(),
		StartX:      l.Start.X,
		StartY:      l.Start.Y,
		Rooms:       make([]RoomData, 0, len(l.Rooms)),
	}

	// Serialize rooms in cell order so saves diff cleanly
	for _, cell := range l.Floor.Sorted() {
		room := l.RoomAt(cell)
		if room == nil {
			continue
		}
		data.Rooms = append(data.Rooms, serializeRoom(room))
	}

	yamlData, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("failed to marshal level data: %w", err)
	}

	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	return nil
}

// serializeRoom converts a Room to RoomData
func serializeRoom(room *Room) RoomData {
	exits := make(map[string]string, len(room.Exits))
	for dir, targetID := range room.Exits {
		exits[dir] = targetID
	}

	return RoomData{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		Kind:        room.Kind.String(),
		X:           room.Cell.X,
		Y:           room.Cell.Y,
		Features:    room.Features,
		Exits:       exits,
	}
}

// Load reads a level back from a YAML file. Rooms are rebuilt first; exits
// are linked in a second pass so references to rooms that never made it into
// the file are dropped instead of dangling.
func Load(filename string) (*Level, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var data LevelData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML: %w", err)
	}

	lv := &Level{
		Name: data.Name,
		Seed: data.Seed,
		Config: walkgen.Config{
			WalkSteps:     data.Config.WalkSteps,
			StampSize:     data.Config.StampSize,
			MinFloorTiles: data.Config.MinFloorTiles,
			MaxAttempts:   data.Config.MaxAttempts,
			Start:         walkgen.Coord{X: data.StartX, Y: data.StartY},
			Seed:          data.Seed,
		},
		Attempts:    data.Attempts,
		GeneratedAt: data.GeneratedAt,
		Start:       walkgen.Coord{X: data.StartX, Y: data.StartY},
		Floor:       walkgen.NewCoordSet(),
		Rooms:       make(map[string]*Room, len(data.Rooms)),
	}

	// First pass: rebuild rooms and the floor set
	pending := make(map[string]map[string]string)
	for _, roomData := range data.Rooms {
		kind, ok := ParseRoomKind(roomData.Kind)
		if !ok {
			return nil, fmt.Errorf("room %s has unknown kind %q", roomData.ID, roomData.Kind)
		}

		room := &Room{
			ID:          roomData.ID,
			Name:        roomData.Name,
			Description: roomData.Description,
			Kind:        kind,
			Cell:        walkgen.Coord{X: roomData.X, Y: roomData.Y},
			Features:    roomData.Features,
			Exits:       make(map[string]string),
		}

		lv.Rooms[room.ID] = room
		lv.Floor.Add(room.Cell)
		if len(roomData.Exits) > 0 {
			pending[room.ID] = roomData.Exits
		}
	}

	// Second pass: link exits, skipping targets that do not exist
	for roomID, exits := range pending {
		room := lv.Rooms[roomID]
		for dir, targetID := range exits {
			if _, ok := lv.Rooms[targetID]; ok {
				room.Exits[dir] = targetID
			}
		}
	}

	// Walls fall straight out of the floor set
	lv.Walls = walkgen.DeriveWalls(lv.Floor)

	return lv, nil
}

// FileExists checks if a level save file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
