//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"memberportal/internal/auth/models"
	"memberportal/internal/auth/store"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/testutil/containers"
)

type RedisPersisterSuite struct {
	suite.Suite
	redis     *containers.RedisContainer
	persister *store.RedisPersister
}

func TestRedisPersisterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisPersisterSuite))
}

func (s *RedisPersisterSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.persister = store.NewRedisPersister(s.redis.Client)
}

func (s *RedisPersisterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(expiresIn time.Duration) models.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Session{
		ID: id.NewSessionID(),
		User: models.AuthenticatedUser{
			UserID:           id.NewUserID(),
			FirstName:        "Thandi",
			MembershipNumber: "MBR20260000001",
		},
		Token:     "token",
		Device:    "Firefox 120 on Linux",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func (s *RedisPersisterSuite) TestRoundTripAndTTL() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.persister.Save(ctx, sess))

	got, err := s.persister.Load(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.User.MembershipNumber, got.User.MembershipNumber)
	s.True(sess.ExpiresAt.Equal(got.ExpiresAt))

	ttl, err := s.redis.Client.TTL(ctx, "auth:session:"+sess.ID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute)
}

func (s *RedisPersisterSuite) TestLoadAllAndDelete() {
	ctx := context.Background()
	a, b := makeSession(time.Hour), makeSession(time.Hour)
	s.Require().NoError(s.persister.Save(ctx, a))
	s.Require().NoError(s.persister.Save(ctx, b))

	all, err := s.persister.LoadAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	s.Require().NoError(s.persister.Delete(ctx, a.ID))
	_, err = s.persister.Load(ctx, a.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisPersisterSuite) TestExpiredSessionIsNotWritten() {
	ctx := context.Background()
	sess := makeSession(-time.Minute)
	s.Require().NoError(s.persister.Save(ctx, sess))
	_, err := s.persister.Load(ctx, sess.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisPersisterSuite) TestStoreInitFromRedis() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.persister.Save(ctx, sess))

	st := store.New(s.persister)
	s.Require().NoError(st.Init(ctx))
	s.True(st.IsAuthenticated(ctx, sess.ID))
}
