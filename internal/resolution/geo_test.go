package resolution

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"memberportal/internal/backend"
	"memberportal/internal/resolution/mocks"
	dErrors "memberportal/pkg/domain-errors"
)

func TestNormalizeWardQuery(t *testing.T) {
	g := NewGeo(nil)
	tests := []struct {
		province string
		query    string
		want     string
	}{
		{"Gauteng", "74", "79800074"},
		{"GP", "7", "79800007"},
		{"gauteng", "123", "79800123"},
		{"Gauteng", "79800074", "79800074"},
		{"Gauteng", "Soweto", "Soweto"},
		{"Gauteng", " 74 ", "79800074"},
		{"Western Cape", "74", "74"},
		{"Gauteng", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.province+"/"+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, g.NormalizeWardQuery(tt.province, tt.query))
		})
	}
}

func TestWardsSendsNormalizedQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGeoClient(ctrl)
	client.EXPECT().Wards(gomock.Any(), "Gauteng", "JHB", "79800074").
		Return([]backend.Option{{Label: "Ward 74", Value: "79800074"}}, nil)

	opts, err := NewGeo(client).Wards(context.Background(), "Gauteng", "JHB", "74")
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestGeoRequiresParents(t *testing.T) {
	g := NewGeo(nil)
	_, err := g.Municipalities(context.Background(), "", "x")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	_, err = g.Wards(context.Background(), "GP", "", "x")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	_, err = g.VotingStations(context.Background(), "", "x")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestCascadeForFetchesBothLists(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGeoClient(ctrl)
	client.EXPECT().Provinces(gomock.Any(), "").Return([]backend.Option{{Label: "Gauteng", Value: "GP"}}, nil)
	client.EXPECT().Municipalities(gomock.Any(), "GP", "").Return([]backend.Option{{Label: "Johannesburg", Value: "JHB"}}, nil)

	out, err := NewGeo(client).CascadeFor(context.Background(), "GP")
	require.NoError(t, err)
	assert.Equal(t, "GP", out.Provinces[0].Value)
	assert.Equal(t, "JHB", out.Municipalities[0].Value)
}

func TestCascadeForPropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGeoClient(ctrl)
	client.EXPECT().Provinces(gomock.Any(), "").Return([]backend.Option{}, nil)
	client.EXPECT().Municipalities(gomock.Any(), "GP", "").
		Return(nil, &backend.Error{Op: "geo_municipalities", Status: http.StatusInternalServerError, Message: "boom"})

	_, err := NewGeo(client).CascadeFor(context.Background(), "GP")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
}

func TestCascadeWithoutProvinceSkipsMunicipalities(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGeoClient(ctrl)
	client.EXPECT().Provinces(gomock.Any(), "").Return([]backend.Option{}, nil)

	out, err := NewGeo(client).CascadeFor(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, out.Municipalities)
}
