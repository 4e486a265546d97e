package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// ErrLevelNotFound is returned when a level lookup fails.
var ErrLevelNotFound = errors.New("level not found")

// ErrLevelExists is returned when trying to store a duplicate level name.
var ErrLevelExists = errors.New("level already exists")

// LevelRecord is a stored generated level
type LevelRecord struct {
	ID        int64
	Name      string
	Seed      int64
	Config    walkgen.Config
	Attempts  int
	Start     walkgen.Coord
	Floor     walkgen.CoordSet
	CreatedAt time.Time
}

// Layout rebuilds the generated level from the record. Walls are derived
// from the stored floor, so they never go stale against it.
func (r *LevelRecord) Layout() *walkgen.Level {
	return &walkgen.Level{
		Floor:    r.Floor,
		Walls:    walkgen.DeriveWalls(r.Floor),
		Start:    r.Start,
		Attempts: r.Attempts,
	}
}

// CreateLevel stores a generated level under a unique name.
func (s *Store) CreateLevel(name string, seed int64, cfg walkgen.Config, lv *walkgen.Level) (*LevelRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("level name cannot be empty")
	}

	query := s.qb.BuildWithReturning(
		`INSERT INTO levels (name, seed, walk_steps, stamp_size, min_floor_tiles, max_attempts, attempts, start_x, start_y, floor_cells)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")

	args := []any{
		name, seed,
		cfg.WalkSteps, cfg.StampSize, cfg.MinFloorTiles, cfg.MaxAttempts,
		lv.Attempts, lv.Start.X, lv.Start.Y,
		EncodeCoords(lv.Floor),
	}

	var id int64
	if s.dialect.SupportsLastInsertID() {
		result, err := s.db.Exec(query, args...)
		if err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return nil, ErrLevelExists
			}
			return nil, fmt.Errorf("failed to store level: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get level ID: %w", err)
		}
	} else {
		if err := s.db.QueryRow(query, args...).Scan(&id); err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return nil, ErrLevelExists
			}
			return nil, fmt.Errorf("failed to store level: %w", err)
		}
	}

	return &LevelRecord{
		ID:        id,
		Name:      name,
		Seed:      seed,
		Config:    cfg,
		Attempts:  lv.Attempts,
		Start:     lv.Start,
		Floor:     lv.Floor,
		CreatedAt: time.Now(),
	}, nil
}

// GetLevelByName retrieves a stored level by name.
func (s *Store) GetLevelByName(name string) (*LevelRecord, error) {
	query := s.qb.Build(
		`SELECT id, name, seed, walk_steps, stamp_size, min_floor_tiles, max_attempts, attempts, start_x, start_y, floor_cells, created_at
		 FROM levels WHERE name = ?`)

	return s.scanLevel(s.db.QueryRow(query, name))
}

// GetLevelByID retrieves a stored level by ID.
func (s *Store) GetLevelByID(id int64) (*LevelRecord, error) {
	query := s.qb.Build(
		`SELECT id, name, seed, walk_steps, stamp_size, min_floor_tiles, max_attempts, attempts, start_x, start_y, floor_cells, created_at
		 FROM levels WHERE id = ?`)

	return s.scanLevel(s.db.QueryRow(query, id))
}

// scanLevel reads one level row
func (s *Store) scanLevel(row *sql.Row) (*LevelRecord, error) {
	var rec LevelRecord
	var floorText string

	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Seed,
		&rec.Config.WalkSteps, &rec.Config.StampSize, &rec.Config.MinFloorTiles, &rec.Config.MaxAttempts,
		&rec.Attempts, &rec.Start.X, &rec.Start.Y,
		&floorText, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}

	rec.Config.Seed = rec.Seed
	rec.Config.Start = rec.Start

	rec.Floor, err = DecodeCoords(floorText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode level %q floor: %w", rec.Name, err)
	}

	return &rec, nil
}

// LevelSummary is a stored level without its cell data
type LevelSummary struct {
	ID         int64
	Name       string
	Seed       int64
	Attempts   int
	FloorTiles int
	CreatedAt  time.Time
}

// ListLevels returns summaries of all stored levels, newest first.
func (s *Store) ListLevels() ([]*LevelSummary, error) {
	query := `SELECT id, name, seed, attempts, floor_cells, created_at FROM levels ORDER BY id DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var summaries []*LevelSummary
	for rows.Next() {
		var sum LevelSummary
		var floorText string

		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Seed, &sum.Attempts, &floorText, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan level row: %w", err)
		}

		sum.FloorTiles = len(strings.Fields(floorText))
		summaries = append(summaries, &sum)
	}

	return summaries, rows.Err()
}

// DeleteLevel removes a stored level by name.
func (s *Store) DeleteLevel(name string) error {
	query := s.qb.Build("DELETE FROM levels WHERE name = ?")

	result, err := s.db.Exec(query, name)
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrLevelNotFound
	}

	return nil
}

// CountLevels returns the total number of stored levels.
func (s *Store) CountLevels() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM levels").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count levels: %w", err)
	}
	return count, nil
}
