package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor (12 is a good balance of security and performance)
const bcryptCost = 12

// ErrKeyNotFound is returned when an API key lookup fails.
var ErrKeyNotFound = errors.New("api key not found")

// ErrKeyExists is returned when trying to create a duplicate API key name.
var ErrKeyExists = errors.New("api key already exists")

// ErrInvalidKey is returned when an API key secret does not match.
var ErrInvalidKey = errors.New("invalid api key")

// APIKey identifies one service client. The secret is stored only as a
// bcrypt hash.
type APIKey struct {
	ID         int64
	Name       string
	SecretHash string
	CreatedAt  time.Time
	LastUsed   *time.Time
}

// CreateAPIKey creates a new API key with the given name and secret.
// The secret is hashed with bcrypt before storage.
func (s *Store) CreateAPIKey(name, secret string) (*APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("key name cannot be empty")
	}
	if len(secret) < 8 {
		return nil, errors.New("key secret must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	query := s.qb.BuildWithReturning(
		"INSERT INTO api_keys (name, secret_hash) VALUES (?, ?)", "id")

	var id int64
	if s.dialect.SupportsLastInsertID() {
		result, err := s.db.Exec(query, name, string(hash))
		if err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return nil, ErrKeyExists
			}
			return nil, fmt.Errorf("failed to create api key: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get api key ID: %w", err)
		}
	} else {
		if err := s.db.QueryRow(query, name, string(hash)).Scan(&id); err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return nil, ErrKeyExists
			}
			return nil, fmt.Errorf("failed to create api key: %w", err)
		}
	}

	return &APIKey{
		ID:         id,
		Name:       name,
		SecretHash: string(hash),
		CreatedAt:  time.Now(),
	}, nil
}

// VerifyAPIKey checks a name and secret against the stored hash.
// Returns ErrInvalidKey when either the name is unknown or the secret is
// wrong, so callers cannot probe for key names.
func (s *Store) VerifyAPIKey(name, secret string) (*APIKey, error) {
	key, err := s.GetAPIKeyByName(name)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrInvalidKey
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return nil, ErrInvalidKey
	}

	// Record the use; failure here never blocks a valid key
	if err := s.touchAPIKey(key.ID); err != nil {
		fmt.Printf("warning: failed to update api key last use: %v\n", err)
	}

	return key, nil
}

// GetAPIKeyByName retrieves an API key by name.
func (s *Store) GetAPIKeyByName(name string) (*APIKey, error) {
	query := s.qb.Build(
		"SELECT id, name, secret_hash, created_at, last_used FROM api_keys WHERE name = ?")

	var key APIKey
	var lastUsed sql.NullTime

	err := s.db.QueryRow(query, name).Scan(&key.ID, &key.Name, &key.SecretHash, &key.CreatedAt, &lastUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	if lastUsed.Valid {
		key.LastUsed = &lastUsed.Time
	}

	return &key, nil
}

// touchAPIKey updates the last_used timestamp for a key
func (s *Store) touchAPIKey(id int64) error {
	query := s.qb.Build("UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE id = ?")
	_, err := s.db.Exec(query, id)
	return err
}

// DeleteAPIKey removes an API key by name.
func (s *Store) DeleteAPIKey(name string) error {
	query := s.qb.Build("DELETE FROM api_keys WHERE name = ?")

	result, err := s.db.Exec(query, name)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrKeyNotFound
	}

	return nil
}

// CountAPIKeys returns the total number of API keys.
func (s *Store) CountAPIKeys() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM api_keys").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count api keys: %w", err)
	}
	return count, nil
}
