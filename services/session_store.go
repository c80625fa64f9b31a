package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps login sessions in Redis so tokens can be revoked.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

// Create opens a session for userID and returns its id.
func (s *SessionStore) Create(ctx context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	value := strconv.FormatUint(uint64(userID), 10)
	if err := s.rdb.Set(ctx, sessionKey(id), value, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Resolve returns the user that owns the session.
func (s *SessionStore) Resolve(ctx context.Context, id string) (uint, error) {
	userID, err := s.rdb.Get(ctx, sessionKey(id)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve session: %w", err)
	}
	return uint(userID), nil
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
