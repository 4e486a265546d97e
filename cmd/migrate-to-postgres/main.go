// migrate-to-postgres migrates level and API key data from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/gridwalk.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user gridwalk \
//	    -pg-password gridwalk \
//	    -pg-database gridwalk
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	// Parse command-line flags
	sqlitePath := flag.String("sqlite", "data/gridwalk.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "gridwalk", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "gridwalk", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "gridwalk", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	// Open SQLite database
	log.Printf("Opening SQLite database: %s", *sqlitePath)
	sqliteDB, err := sql.Open("sqlite", *sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer sqliteDB.Close()

	// Verify SQLite connection
	if err := sqliteDB.Ping(); err != nil {
		log.Fatalf("Failed to connect to SQLite database: %v", err)
	}

	// Build PostgreSQL connection string
	pgConnStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		*pgHost, *pgPort, *pgUser, *pgPassword, *pgDatabase, *pgSSLMode,
	)

	// Open PostgreSQL database
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	pgDB, err := sql.Open("postgres", pgConnStr)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer pgDB.Close()

	// Verify PostgreSQL connection
	if err := pgDB.Ping(); err != nil {
		log.Fatalf("Failed to connect to PostgreSQL database: %v", err)
	}

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	// Run migrations on PostgreSQL first
	log.Println("Ensuring PostgreSQL schema is ready...")
	if !*dryRun {
		if err := migratePostgres(pgDB); err != nil {
			log.Fatalf("Failed to migrate PostgreSQL schema: %v", err)
		}
	}

	// Migrate each table
	tables := []struct {
		name    string
		migrate func(*sql.DB, *sql.DB, bool) (int64, error)
	}{
		{"levels", migrateLevels},
		{"api_keys", migrateAPIKeys},
	}

	var totalRows int64
	for _, t := range tables {
		log.Printf("Migrating table: %s", t.name)
		count, err := t.migrate(sqliteDB, pgDB, *dryRun)
		if err != nil {
			log.Fatalf("Failed to migrate %s: %v", t.name, err)
		}
		log.Printf("  Migrated %d rows", count)
		totalRows += count
	}

	log.Println("====================================")
	log.Printf("Migration complete! Total rows migrated: %d", totalRows)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

func migratePostgres(db *sql.DB) error {
	// Enable citext extension
	if _, err := db.Exec("CREATE EXTENSION IF NOT EXISTS citext"); err != nil {
		return fmt.Errorf("failed to create citext extension: %w", err)
	}

	migrations := []string{
		// Generated levels table
		`CREATE TABLE IF NOT EXISTS levels (
			id SERIAL PRIMARY KEY,
			name CITEXT UNIQUE NOT NULL,
			seed BIGINT NOT NULL,
			walk_steps INTEGER NOT NULL,
			stamp_size INTEGER NOT NULL,
			min_floor_tiles INTEGER NOT NULL,
			max_attempts INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			start_x INTEGER NOT NULL,
			start_y INTEGER NOT NULL,
			floor_cells TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// API keys table
		`CREATE TABLE IF NOT EXISTS api_keys (
			id SERIAL PRIMARY KEY,
			name CITEXT UNIQUE NOT NULL,
			secret_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_used TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_levels_name ON levels(name)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_name ON api_keys(name)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

func migrateLevels(sqlite, pg *sql.DB, dryRun bool) (int64, error) {
	rows, err := sqlite.Query(`
		SELECT id, name, seed, walk_steps, stamp_size, min_floor_tiles, max_attempts,
		       attempts, start_x, start_y, floor_cells, created_at
		FROM levels
	`)
	if err != nil {
		// Table might not exist in an empty database
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var id, seed int64
		var name, floorCells string
		var walkSteps, stampSize, minFloorTiles, maxAttempts, attempts, startX, startY int
		var createdAt string

		if err := rows.Scan(&id, &name, &seed, &walkSteps, &stampSize, &minFloorTiles, &maxAttempts,
			&attempts, &startX, &startY, &floorCells, &createdAt); err != nil {
			return count, err
		}

		if dryRun {
			count++
			continue
		}

		// Check if level already exists
		var existingID int64
		err := pg.QueryRow(`SELECT id FROM levels WHERE id = $1`, id).Scan(&existingID)
		if err == nil {
			// Level exists, skip
			continue
		}

		// Insert with explicit ID to preserve references
		_, err = pg.Exec(`
			INSERT INTO levels (id, name, seed, walk_steps, stamp_size, min_floor_tiles, max_attempts,
			                    attempts, start_x, start_y, floor_cells, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, id, name, seed, walkSteps, stampSize, minFloorTiles, maxAttempts,
			attempts, startX, startY, floorCells, parseTime(createdAt))
		if err != nil {
			if !strings.Contains(err.Error(), "duplicate key") {
				return count, err
			}
		} else {
			count++
		}
	}

	// Reset the sequence to avoid ID conflicts for new records
	if !dryRun {
		_, _ = pg.Exec(`SELECT setval('levels_id_seq', COALESCE((SELECT MAX(id) FROM levels), 0) + 1, false)`)
	}

	return count, rows.Err()
}

func migrateAPIKeys(sqlite, pg *sql.DB, dryRun bool) (int64, error) {
	rows, err := sqlite.Query(`SELECT id, name, secret_hash, created_at, last_used FROM api_keys`)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var id int64
		var name, secretHash string
		var createdAt string
		var lastUsed sql.NullString

		if err := rows.Scan(&id, &name, &secretHash, &createdAt, &lastUsed); err != nil {
			return count, err
		}

		if dryRun {
			count++
			continue
		}

		var existingID int64
		err := pg.QueryRow(`SELECT id FROM api_keys WHERE id = $1`, id).Scan(&existingID)
		if err == nil {
			continue
		}

		_, err = pg.Exec(`
			INSERT INTO api_keys (id, name, secret_hash, created_at, last_used)
			VALUES ($1, $2, $3, $4, $5)
		`, id, name, secretHash, parseTime(createdAt), parseNullTime(lastUsed))
		if err != nil {
			if !strings.Contains(err.Error(), "duplicate key") {
				return count, err
			}
		} else {
			count++
		}
	}

	if !dryRun {
		_, _ = pg.Exec(`SELECT setval('api_keys_id_seq', COALESCE((SELECT MAX(id) FROM api_keys), 0) + 1, false)`)
	}

	return count, rows.Err()
}

// Helper functions

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	// Try various formats
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-07:00",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return &t
		}
	}
	log.Printf("Warning: Could not parse time: %s", s)
	return nil
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return parseTime(ns.String)
}

func init() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Migrates level and API key data from SQLite to PostgreSQL.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s -sqlite data/gridwalk.db -pg-host localhost -pg-user gridwalk -pg-password gridwalk -pg-database gridwalk\n", os.Args[0])
	}
}
