package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberportal/internal/members/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
)

func testMember(idNumber, number, province string, joined time.Time) *models.Member {
	return &models.Member{
		ID:               id.NewMemberID(),
		IDNumber:         idNumber,
		FirstName:        "Sipho",
		LastName:         "Dlamini",
		Province:         province,
		MembershipNumber: number,
		Status:           models.StatusActive,
		JoinDate:         joined,
	}
}

func TestInMemoryStoreSaveUpsertsOnIDNumber(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	joined := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	first := testMember("0001025205087", "MBR20260000001", "GP", joined)
	require.NoError(t, s.Save(ctx, first))

	second := testMember("0001025205087", "MBR20260000001", "WC", joined.AddDate(0, 6, 0))
	require.NoError(t, s.Save(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, joined, second.JoinDate)

	got, err := s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "WC", got.Province)

	got.Province = "mutated"
	again, err := s.FindByIDNumber(ctx, "0001025205087")
	require.NoError(t, err)
	assert.Equal(t, "WC", again.Province)
}

func TestInMemoryStoreRejectsDuplicateMembershipNumber(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testMember("0001025205087", "MBR20260000001", "GP", time.Now())))

	err := s.Save(ctx, testMember("8001015009087", "MBR20260000001", "GP", time.Now()))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryStoreList(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, testMember("0001025205081", "MBR20260000001", "GP", base)))
	require.NoError(t, s.Save(ctx, testMember("0001025205082", "MBR20260000002", "WC", base.Add(time.Hour))))
	require.NoError(t, s.Save(ctx, testMember("0001025205083", "MBR20260000003", "GP", base.Add(2*time.Hour))))

	tests := []struct {
		name    string
		filter  models.Filter
		want    []string
		wantTot int
	}{
		{name: "newest first", filter: models.Filter{}, want: []string{"MBR20260000003", "MBR20260000002", "MBR20260000001"}, wantTot: 3},
		{name: "province", filter: models.Filter{Provinces: []string{"GP"}}, want: []string{"MBR20260000003", "MBR20260000001"}, wantTot: 2},
		{name: "query", filter: models.Filter{Query: " 0000002 "}, want: []string{"MBR20260000002"}, wantTot: 1},
		{name: "page", filter: models.Filter{Limit: 1, Offset: 1}, want: []string{"MBR20260000002"}, wantTot: 3},
		{name: "offset past end", filter: models.Filter{Offset: 10}, want: []string{}, wantTot: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTot, total)
			numbers := []string{}
			for _, m := range got {
				numbers = append(numbers, m.MembershipNumber)
			}
			assert.Equal(t, tt.want, numbers)
		})
	}
}

func TestInMemoryStoreFindMissing(t *testing.T) {
	_, err := NewInMemoryStore().FindByIDNumber(context.Background(), "nope")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
