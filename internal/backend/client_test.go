package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/circuit"
	"memberportal/pkg/platform/sentinel"
)

type ClientSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	c, err := New(s.server.URL + "/api")
	s.Require().NoError(err)
	s.client = c
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ClientSuite) TestRegisterPostsBodyAndReturnsEnvelope() {
	s.mux.HandleFunc("POST /api/registration", func(w http.ResponseWriter, r *http.Request) {
		var req RegistrationRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal("0001025205087", req.IDNumber)
		s.Equal("application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, map[string]any{
			"successful": true,
			"data":       map[string]any{"subscriptionId": "sub-1"},
		})
	})

	out, err := s.client.Register(context.Background(), RegistrationRequest{IDNumber: "0001025205087"})
	s.Require().NoError(err)
	s.True(out.Successful)
	s.Equal("sub-1", out.Data.SubscriptionID)
}

func (s *ClientSuite) TestUnsuccessfulRegistrationIsNotAnError() {
	s.mux.HandleFunc("POST /api/registration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"successful": false, "message": "duplicate member"})
	})

	out, err := s.client.Register(context.Background(), RegistrationRequest{})
	s.Require().NoError(err)
	s.False(out.Successful)
	s.Equal("duplicate member", out.Message)
}

func (s *ClientSuite) TestVerifyPaymentKeepsBothFlags() {
	s.mux.HandleFunc("POST /api/payment/verify", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"successful": true,
			"data":       map[string]any{"success": false, "status": "pending", "reference": "ref-1"},
		})
	})

	out, err := s.client.VerifyPayment(context.Background(), "ref-1")
	s.Require().NoError(err)
	s.True(out.Successful)
	s.False(out.Data.Success)
	s.Equal("pending", out.Data.Status)
}

func (s *ClientSuite) TestVotingInfoErrorCarriesBackendMessage() {
	s.mux.HandleFunc("GET /api/membership/voting-info", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("0001025205088", r.URL.Query().Get("idNumber"))
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Checksum validation failed"})
	})

	_, err := s.client.VotingInfo(context.Background(), "0001025205088")
	s.Require().Error(err)
	be, ok := AsError(err)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, be.Status)
	s.Equal("Checksum validation failed", Message(err))
	s.True(dErrors.HasCode(ToDomain(err, "lookup failed"), dErrors.CodeBadRequest))
}

func (s *ClientSuite) TestVotingInfoUnsuccessfulEnvelope() {
	s.mux.HandleFunc("GET /api/membership/voting-info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"successful": false, "message": "not on the roll"})
	})

	_, err := s.client.VotingInfo(context.Background(), "0001025205087")
	s.Require().Error(err)
	s.Equal("not on the roll", Message(err))
}

func (s *ClientSuite) TestGeoOptionsSendQuery() {
	s.mux.HandleFunc("GET /api/geoInfo/wards", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.Equal("GP", q.Get("province"))
		s.Equal("JHB", q.Get("municipality"))
		s.Equal("79800074", q.Get("q"))
		writeJSON(w, http.StatusOK, map[string]any{
			"successful": true,
			"data":       []map[string]string{{"label": "Ward 74", "value": "79800074"}},
		})
	})

	opts, err := s.client.Wards(context.Background(), "GP", "JHB", "79800074")
	s.Require().NoError(err)
	s.Equal([]Option{{Label: "Ward 74", Value: "79800074"}}, opts)
}

func (s *ClientSuite) TestPlainTextErrorBody() {
	s.mux.HandleFunc("GET /api/membership/types", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance window", http.StatusServiceUnavailable)
	})

	_, err := s.client.MembershipTypes(context.Background())
	s.Require().Error(err)
	s.Equal("maintenance window", Message(err))
	s.True(dErrors.HasCode(ToDomain(err, "failed"), dErrors.CodeUpstream))
}

func TestBreakerOpensAfterServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	now := time.Now()
	breaker := circuit.New("test",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	c, err := New(srv.URL, WithBreaker(breaker))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Provinces(context.Background(), "")
		require.Error(t, err)
	}
	assert.True(t, breaker.IsOpen())

	_, err = c.Provinces(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	assert.Equal(t, int32(2), calls.Load(), "open circuit must not reach the backend")
	assert.True(t, dErrors.HasCode(ToDomain(err, "geo lookup failed"), dErrors.CodeUnavailable))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")
	assert.Error(t, err)
}

func TestNewAppliesClientOptions(t *testing.T) {
	var seen atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(true)
		writeJSON(w, http.StatusOK, []Option{{Label: "Gauteng", Value: "GP"}})
	}))
	defer srv.Close()

	breaker := circuit.New("options")
	opts := []ClientOption{
		WithHTTPClient(&http.Client{Timeout: time.Second}),
		WithBreaker(breaker),
		WithLogger(nil),
		WithTracerProvider(nil),
	}
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	assert.Same(t, breaker, c.breaker)

	_, _ = c.Provinces(context.Background(), "")
	assert.True(t, seen.Load())
}
