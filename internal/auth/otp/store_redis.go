package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"memberportal/pkg/platform/sentinel"
)

const challengeKeyPrefix = "auth:otp:"

// RedisStore keeps challenges under keys that expire with the code, so
// abandoned codes clean themselves up.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, c Challenge, ttl time.Duration) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}
	return s.client.Set(ctx, challengeKeyPrefix+c.IDNumber, raw, ttl).Err()
}

func (s *RedisStore) Find(ctx context.Context, idNumber string) (*Challenge, error) {
	raw, err := s.client.Get(ctx, challengeKeyPrefix+idNumber).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var c Challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &c, nil
}

// Delete uses DEL's count so only one concurrent verifier can claim a code.
func (s *RedisStore) Delete(ctx context.Context, idNumber string) (bool, error) {
	n, err := s.client.Del(ctx, challengeKeyPrefix+idNumber).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
