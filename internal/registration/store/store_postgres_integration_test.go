//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"memberportal/internal/registration/models"
	"memberportal/internal/registration/store"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/platform/tx"
	"memberportal/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.now = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	s.store = store.NewPostgresStore(s.postgres.DB, store.WithPostgresClock(func() time.Time { return s.now }))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "registration_sessions"))
}

func (s *PostgresStoreSuite) TestSnapshotRoundTrip() {
	ctx := context.Background()
	session := models.NewRegistrationSession(s.now, time.Hour)
	session.CurrentStep = models.StepContactDetails
	session.Form.FirstName = "Thandi"
	session.Errors["email"] = "Email is required"
	session.Payment = models.PaymentSnapshot{
		State: models.PaymentUnresolved,
		Init:  &models.PaymentInit{AuthorizationURL: "https://gateway.test/pay", Reference: "ref-1"},
	}
	s.Require().NoError(s.store.Save(ctx, session))

	got, err := s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, got.ID)
	s.Equal(models.StepContactDetails, got.CurrentStep)
	s.Equal("Thandi", got.Form.FirstName)
	s.Equal("Email is required", got.Errors["email"])
	s.True(got.Payment.CanRetryVerification())

	session.Form.FirstName = "Thandiwe"
	s.Require().NoError(s.store.Save(ctx, session))
	got, err = s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal("Thandiwe", got.Form.FirstName)
}

func (s *PostgresStoreSuite) TestExpiry() {
	ctx := context.Background()
	expired := models.NewRegistrationSession(s.now.Add(-2*time.Hour), time.Hour)
	live := models.NewRegistrationSession(s.now, time.Hour)
	s.Require().NoError(s.store.Save(ctx, expired))
	s.Require().NoError(s.store.Save(ctx, live))

	_, err := s.store.FindByID(ctx, expired.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	removed, err := s.store.DeleteExpired(ctx, s.now)
	s.Require().NoError(err)
	s.Equal(1, removed)
}

func (s *PostgresStoreSuite) TestSaveInsideRolledBackTransaction() {
	ctx := context.Background()
	session := models.NewRegistrationSession(s.now, time.Hour)

	sqlTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(tx.WithTx(ctx, sqlTx), session))
	s.Require().NoError(sqlTx.Rollback())

	_, err = s.store.FindByID(ctx, session.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
