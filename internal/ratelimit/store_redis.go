package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisStore keeps each window as a sorted set of request timestamps in
// microseconds, which a float64 score holds exactly.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Allow trims the window, counts what is left and records this request in
// one transaction. A request over the limit is removed again so rejected
// calls do not extend the window.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := s.now()
	k := keyPrefix + key
	member := strconv.FormatInt(now.UnixMicro(), 10) + "-" + uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)

	var count *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", cutoff)
		count = pipe.ZCard(ctx, k)
		pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixMicro()), Member: member})
		oldest = pipe.ZRangeWithScores(ctx, k, 0, 0)
		pipe.PExpire(ctx, k, window)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	resetAt := now.Add(window)
	if zs := oldest.Val(); len(zs) > 0 {
		resetAt = time.UnixMicro(int64(zs[0].Score)).Add(window)
	}
	used := int(count.Val())
	if used >= limit {
		if err := s.client.ZRem(ctx, k, member).Err(); err != nil {
			return Result{}, err
		}
		return Result{Allowed: false, Limit: limit, Remaining: 0, ResetAt: resetAt}, nil
	}
	return Result{Allowed: true, Limit: limit, Remaining: limit - used - 1, ResetAt: resetAt}, nil
}
