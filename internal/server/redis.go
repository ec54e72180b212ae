package server

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session tokens in Redis.
const sessionKeyPrefix = "auth_"

// RedisSessions is the Redis-backed SessionStore. Tokens are plain string
// keys with a TTL; expiry is entirely Redis's job.
type RedisSessions struct {
	rdb *redis.Client
}

var _ SessionStore = (*RedisSessions)(nil)

// OpenRedis connects to the Redis at url (redis://host:port/db) and validates
// connectivity before returning.
func OpenRedis(ctx context.Context, url string) (*RedisSessions, error) {
	if url == "" {
		return nil, errors.New("REDIS_URL is empty")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &RedisSessions{rdb: rdb}, nil
}

// Close releases the underlying client.
func (s *RedisSessions) Close() error {
	return s.rdb.Close()
}

func (s *RedisSessions) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err()
}

func (s *RedisSessions) UserID(ctx context.Context, token string) (string, error) {
	v, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", err
	}
	return v, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoSession
	}
	return nil
}

func (s *RedisSessions) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
