package redisx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

// TokenStore persists the session token in redis, for deployments where the
// storefront process is restarted but the session should survive.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, KeyToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, KeyToken, token, TTLToken).Err()
}
