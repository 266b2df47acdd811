package resolution

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memberportal/internal/backend"
	"memberportal/internal/registration/models"
	"memberportal/internal/resolution/mocks"
	dErrors "memberportal/pkg/domain-errors"
)

const testID = "0001025205087"

var fixedNow = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

type ResolverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	client   *mocks.MockVotingInfoClient
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = mocks.NewMockVotingInfoClient(s.ctrl)
	s.resolver = NewResolver(s.client, WithClock(func() time.Time { return fixedNow }))
}

func votingInfo() *backend.VotingInfo {
	return &backend.VotingInfo{ProvinceID: "GP", MunicipalityID: "JHB", WardID: "79800074", VotingStationID: "VS1"}
}

func (s *ResolverSuite) TestResolveCombinesDerivationAndLookup() {
	s.client.EXPECT().VotingInfo(gomock.Any(), testID).Return(votingInfo(), nil)

	got, err := s.resolver.Resolve(context.Background(), testID)
	s.Require().NoError(err)
	s.Equal("2000-01-02", got.DateOfBirth)
	s.Equal("Male", got.Gender)
	s.Equal("79800074", got.Ward)

	last, ok := s.resolver.Last(context.Background(), testID)
	s.True(ok)
	s.Equal(got, last)
}

func (s *ResolverSuite) TestRetryAfterSuccessIsServedFromCache() {
	s.client.EXPECT().VotingInfo(gomock.Any(), testID).Return(votingInfo(), nil).Times(1)

	_, err := s.resolver.Resolve(context.Background(), testID)
	s.Require().NoError(err)
	_, err = s.resolver.Resolve(context.Background(), testID)
	s.Require().NoError(err)
}

func (s *ResolverSuite) TestMalformedIDNeverReachesBackend() {
	_, err := s.resolver.Resolve(context.Background(), "12345")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ResolverSuite) TestChecksumFailureIsRewritten() {
	s.client.EXPECT().VotingInfo(gomock.Any(), testID).
		Return(nil, &backend.Error{Op: "voting_info", Status: http.StatusBadRequest, Message: "ID Checksum failed"})

	_, err := s.resolver.Resolve(context.Background(), testID)
	de, ok := dErrors.As(err)
	s.Require().True(ok)
	s.Equal(MsgInvalidIDNumber, de.Message)
	s.Equal(dErrors.CodeInvalidInput, de.Code)

	_, cached := s.resolver.Last(context.Background(), testID)
	s.False(cached, "failures are not cached")
}

func (s *ResolverSuite) TestOtherFailuresKeepRawMessage() {
	s.client.EXPECT().VotingInfo(gomock.Any(), testID).
		Return(nil, &backend.Error{Op: "voting_info", Status: http.StatusBadGateway, Message: "roll service down"})

	_, err := s.resolver.Resolve(context.Background(), testID)
	de, ok := dErrors.As(err)
	s.Require().True(ok)
	s.Equal("roll service down", de.Message)
	s.Equal(dErrors.CodeUpstream, de.Code)
}

func (s *ResolverSuite) TestConcurrentCallsShareOneLookup() {
	release := make(chan struct{})
	s.client.EXPECT().VotingInfo(gomock.Any(), testID).DoAndReturn(
		func(ctx context.Context, _ string) (*backend.VotingInfo, error) {
			<-release
			return votingInfo(), nil
		}).Times(1)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.resolver.Resolve(context.Background(), testID)
			errs <- err
		}()
	}

	s.Eventually(func() bool { return s.resolver.InFlight(testID) }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.False(s.resolver.InFlight(testID))
}

func (s *ResolverSuite) TestCallerCancellationDoesNotAbortSharedLookup() {
	release := make(chan struct{})
	done := make(chan struct{})
	s.client.EXPECT().VotingInfo(gomock.Any(), testID).DoAndReturn(
		func(ctx context.Context, _ string) (*backend.VotingInfo, error) {
			<-release
			defer close(done)
			return votingInfo(), ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	resultCh := make(chan error, 1)
	go func() {
		_, err := s.resolver.Resolve(ctx, testID)
		resultCh <- err
	}()
	s.Eventually(func() bool { return s.resolver.InFlight(testID) }, time.Second, time.Millisecond)
	cancel()

	err := <-resultCh
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))

	close(release)
	<-done
	s.Eventually(func() bool {
		_, ok := s.resolver.Last(context.Background(), testID)
		return ok
	}, time.Second, time.Millisecond)
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := fixedNow
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(context.Background(), testID, &models.ResolvedIdentity{IDNumber: testID, Ward: "79800074"}, time.Minute))
	_, ok, err := c.Get(context.Background(), testID)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	_, ok, _ = c.Get(context.Background(), testID)
	assert.False(t, ok)
}

func TestMemoryCacheCleanupDropsUnreadEntries(t *testing.T) {
	var mu sync.Mutex
	now := fixedNow
	c := NewMemoryCache()
	c.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	require.NoError(t, c.Set(context.Background(), testID, &models.ResolvedIdentity{IDNumber: testID}, time.Minute))
	require.NoError(t, c.Set(context.Background(), "8001015009087", &models.ResolvedIdentity{IDNumber: "8001015009087"}, time.Hour))

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.StartCleanup(ctx, time.Millisecond) }()

	assert.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		_, stale := c.entries[testID]
		_, fresh := c.entries["8001015009087"]
		return !stale && fresh
	}, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestTranslateLookupErrorForUnknownErrors(t *testing.T) {
	err := translateLookupError(errors.New("dial tcp: refused"))
	de, ok := dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "dial tcp: refused", de.Message)
}
