// Package store provides SQL persistence for generated levels and service
// API keys, speaking either SQLite or PostgreSQL.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Config selects the backing database
type Config struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path"`   // SQLite file path
	DSN    string `yaml:"dsn"`    // PostgreSQL connection string
}

// DefaultConfig returns a file-backed SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver: string(DialectSQLite),
		Path:   "data/gridwalk.db",
	}
}

// Store wraps the SQL connection and provides persistence operations.
type Store struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the database described by the config and runs the
// schema migrations.
func Open(cfg Config) (*Store, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	dsn := cfg.DSN
	if _, ok := dialect.(*SQLiteDialect); ok {
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a file path")
		}
		// Ensure directory exists
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.Path
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run init statement: %w", err)
		}
	}

	s := &Store{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	migrations := []string{
		// Generated levels
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS levels (
			id %s,
			name %s UNIQUE NOT NULL %s,
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
		)`, s.dialect.AutoIncrementPK(), s.dialect.CaseInsensitiveTextType(), s.dialect.CaseInsensitiveCollation()),

		// Service API keys
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS api_keys (
			id %s,
			name %s UNIQUE NOT NULL %s,
			secret_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_used TIMESTAMP
		)`, s.dialect.AutoIncrementPK(), s.dialect.CaseInsensitiveTextType(), s.dialect.CaseInsensitiveCollation()),

		`CREATE INDEX IF NOT EXISTS idx_levels_name ON levels(name)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_name ON api_keys(name)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}
