package session

import (
	"database/sql"
	"fmt"
	"time"
)

// Fixed storage keys, shared with the web dashboard's local storage.
const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// Store persists the bearer token and the cached user profile. A nil
// database makes every read return empty and every write a no-op;
// absence of a key is never an error.
type Store struct {
	db *sql.DB
}

// NewStore creates a session store over the given database. db may be
// nil when no durable storage medium is available.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Token returns the stored bearer token, or "" when absent.
func (s *Store) Token() string {
	return s.get(tokenKey)
}

// SetToken stores the bearer token.
func (s *Store) SetToken(token string) error {
	return s.set(tokenKey, token)
}

// User returns the serialized user profile, or "" when absent.
func (s *Store) User() string {
	return s.get(userKey)
}

// SetUser stores the serialized user profile.
func (s *Store) SetUser(serialized string) error {
	return s.set(userKey, serialized)
}

// Clear removes the token and the cached user together.
func (s *Store) Clear() error {
	if s.db == nil {
		return nil
	}

	_, err := s.db.Exec("DELETE FROM session_store WHERE key IN (?, ?)", tokenKey, userKey)
	if err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	return nil
}

func (s *Store) get(key string) string {
	if s.db == nil {
		return ""
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM session_store WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

func (s *Store) set(key, value string) error {
	if s.db == nil {
		return nil
	}

	query := `
		INSERT INTO session_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write session store key %s: %w", key, err)
	}
	return nil
}
