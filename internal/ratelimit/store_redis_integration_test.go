//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"memberportal/internal/ratelimit"
	"memberportal/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ratelimit.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = ratelimit.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRejectsOverLimitWithoutCountingRejections() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, err := s.store.Allow(ctx, "lookup:10.0.0.1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}
	for i := 0; i < 2; i++ {
		res, err := s.store.Allow(ctx, "lookup:10.0.0.1", 3, time.Minute)
		s.Require().NoError(err)
		s.False(res.Allowed)
	}

	count, err := s.redis.Client.ZCard(ctx, "ratelimit:lookup:10.0.0.1").Result()
	s.Require().NoError(err)
	s.Equal(int64(3), count)

	ttl, err := s.redis.Client.PTTL(ctx, "ratelimit:lookup:10.0.0.1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	res, err := s.store.Allow(ctx, "otp:10.0.0.2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(ctx, "otp:10.0.0.2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(res.Allowed)

	time.Sleep(300 * time.Millisecond)
	res, err = s.store.Allow(ctx, "otp:10.0.0.2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)
}
