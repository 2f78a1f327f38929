package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore maps an opaque session token (the cookie value) to the sid
// attributed to that browser. Implementations must treat an unknown token as
// an empty sid, not an error.
type SessionStore interface {
	Sid(ctx context.Context, token string) (string, error)
	Bind(ctx context.Context, token, sid string) error
}

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Sid(ctx context.Context, token string) (string, error) {
	sid, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sid, nil
}

func (s *RedisSessionStore) Bind(ctx context.Context, token, sid string) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+token, sid, s.ttl).Err()
}
