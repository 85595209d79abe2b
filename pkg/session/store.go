package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

const sessionIDBytes = 16

// Backend is the slice of the redis client the store depends on.
type Backend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	SessionKey(sessionID string, parts ...string) string
}

// Store reads and writes state scoped to one browser session. Keys from two
// different session IDs never collide, which is what keeps one visitor's cart
// invisible to every other visitor.
type Store struct {
	backend Backend
	ttl     time.Duration
}

// NewStore builds a session store with the configured idle TTL.
func NewStore(backend Backend, ttl time.Duration) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("session backend is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{backend: backend, ttl: ttl}, nil
}

// Set writes a value under the session and refreshes its TTL.
func (s *Store) Set(ctx context.Context, sessionID, key, value string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.backend.Set(ctx, s.backend.SessionKey(sessionID, key), value, s.ttl)
}

// Get reads a value under the session. The second return reports presence.
func (s *Store) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", false, fmt.Errorf("session id is required")
	}
	value, err := s.backend.Get(ctx, s.backend.SessionKey(sessionID, key))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Has reports whether the session holds the given key.
func (s *Store) Has(ctx context.Context, sessionID, key string) (bool, error) {
	_, ok, err := s.Get(ctx, sessionID, key)
	return ok, err
}

// Del removes keys from the session. Missing keys are not an error.
func (s *Store) Del(ctx context.Context, sessionID string, keys ...string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.backend.SessionKey(sessionID, key)
	}
	return s.backend.Del(ctx, full...)
}

// Touch refreshes the TTL of a session key without rewriting it.
func (s *Store) Touch(ctx context.Context, sessionID, key string) error {
	return s.backend.Expire(ctx, s.backend.SessionKey(sessionID, key), s.ttl)
}

// NewSessionID produces an opaque token for the session cookie.
func NewSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
