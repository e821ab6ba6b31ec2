package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists opaque session tokens.
//
// Get returns (nil, nil) for an unknown or expired token. Delete is
// idempotent — deleting a token that no longer exists is not an error.
type SessionStore interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions under session:<token> with a TTL, so
// expiry is enforced by Redis itself and needs no sweeper.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore returns a SessionStore on rdb (which may be nil —
// every call then returns ErrUnavailable).
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string { return "session:" + token }

func (s *RedisSessionStore) Save(ctx context.Context, sess *Session) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.Token), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if s.rdb == nil {
		return nil, ErrUnavailable
	}
	raw, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
