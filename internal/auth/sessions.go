package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sportsdist/commerce/internal/commerce"
	"github.com/sportsdist/commerce/internal/redisx"
)

// Sessions maps opaque cookie tokens to customer ids in Redis. Tokens
// carry no customer data; expiry is the key TTL, fixed at creation.
type Sessions struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (s *Sessions) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return redisx.TTLSession
}

func (s *Sessions) Create(ctx context.Context, customerID string) (string, error) {
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.Redis.Set(ctx, key, customerID, s.ttl()).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Sessions) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", commerce.ErrUnauthorized
	}
	key := fmt.Sprintf(redisx.KeySession, token)
	customerID, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", commerce.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return customerID, nil
}

func (s *Sessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}
