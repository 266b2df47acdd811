//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"memberportal/internal/members"
	"memberportal/internal/members/models"
	"memberportal/internal/members/store"
	regmodels "memberportal/internal/registration/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/platform/tx"
	"memberportal/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "members"))
}

func member(idNumber, number, province string, joined time.Time) *models.Member {
	return &models.Member{
		ID:               id.NewMemberID(),
		IDNumber:         idNumber,
		FirstName:        "Thandi",
		LastName:         "Nkosi",
		Email:            "thandi@example.co.za",
		Cellphone:        "0737504787",
		Address:          "12 Long Street",
		Province:         province,
		MembershipType:   "standard",
		MembershipNumber: number,
		Status:           models.StatusActive,
		JoinDate:         joined,
		UpdatedAt:        joined,
	}
}

func (s *PostgresStoreSuite) TestUpsertKeepsIdentity() {
	ctx := context.Background()
	joined := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	first := member("0001025205087", "MBR20260000001", "GP", joined)
	s.Require().NoError(s.store.Save(ctx, first))

	again := member("0001025205087", "MBR20260000001", "WC", joined.AddDate(1, 0, 0))
	s.Require().NoError(s.store.Save(ctx, again))
	s.Equal(first.ID, again.ID)
	s.True(joined.Equal(again.JoinDate))

	got, err := s.store.FindByIDNumber(ctx, "0001025205087")
	s.Require().NoError(err)
	s.Equal("WC", got.Province)
}

func (s *PostgresStoreSuite) TestMembershipNumberConflict() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Require().NoError(s.store.Save(ctx, member("0001025205087", "MBR20260000001", "GP", now)))

	err := s.store.Save(ctx, member("8001015009087", "MBR20260000001", "GP", now))
	s.True(errors.Is(err, sentinel.ErrConflict))
}

func (s *PostgresStoreSuite) TestListFiltersWithProvinceArray() {
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(ctx, member("0001025205081", "MBR20260000001", "GP", base)))
	s.Require().NoError(s.store.Save(ctx, member("0001025205082", "MBR20260000002", "WC", base.Add(time.Hour))))
	s.Require().NoError(s.store.Save(ctx, member("0001025205083", "MBR20260000003", "KZN", base.Add(2*time.Hour))))

	got, total, err := s.store.List(ctx, models.Filter{Provinces: []string{"GP", "KZN"}, Limit: 10})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(got, 2)
	s.Equal("MBR20260000003", got[0].MembershipNumber)

	got, total, err = s.store.List(ctx, models.Filter{Query: "0000002", Limit: 10})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("WC", got[0].Province)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewMemberID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestEnrollInsideTransaction() {
	ctx := context.Background()
	svc := members.NewService(s.store, members.WithTx(tx.NewSQLRunner(s.postgres.DB)))
	form := regmodels.FormData{
		IDNumber:       "0001025205087",
		FirstName:      "Thandi",
		LastName:       "Nkosi",
		Province:       "GP",
		MembershipType: "standard",
	}

	first, err := svc.Enroll(ctx, form, regmodels.RegistrationResult{}, "ref-1")
	s.Require().NoError(err)
	second, err := svc.Enroll(ctx, form, regmodels.RegistrationResult{}, "ref-2")
	s.Require().NoError(err)
	s.Equal(first, second)

	got, err := s.store.FindByIDNumber(ctx, form.IDNumber)
	s.Require().NoError(err)
	s.Equal("ref-2", got.PaymentReference)
}

func (s *PostgresStoreSuite) TestRunnerRollsBackOnError() {
	ctx := context.Background()
	runner := tx.NewSQLRunner(s.postgres.DB)
	boom := errors.New("boom")

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Save(ctx, member("0001025205087", "MBR20260000001", "GP", time.Now().UTC())))
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindByIDNumber(ctx, "0001025205087")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
