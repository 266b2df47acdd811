package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memberportal/pkg/domain"
	"memberportal/pkg/platform/middleware/auth"
	"memberportal/pkg/platform/middleware/auth/mocks"
	"memberportal/pkg/requestcontext"
)

type RequireAuthSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	validator *mocks.MockJWTValidator
	sessions  *mocks.MockSessionChecker
	userID    domain.UserID
	sessionID domain.SessionID
	handler   http.Handler
	seenUser  domain.UserID
}

func TestRequireAuthSuite(t *testing.T) {
	suite.Run(t, new(RequireAuthSuite))
}

func (s *RequireAuthSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.validator = mocks.NewMockJWTValidator(s.ctrl)
	s.sessions = mocks.NewMockSessionChecker(s.ctrl)
	s.userID = domain.NewUserID()
	s.sessionID = domain.NewSessionID()
	s.seenUser = domain.UserID{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = auth.RequireAuth(s.validator, s.sessions, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.seenUser = requestcontext.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func (s *RequireAuthSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RequireAuthSuite) serve(header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *RequireAuthSuite) validClaims() *auth.JWTClaims {
	return &auth.JWTClaims{UserID: s.userID.String(), SessionID: s.sessionID.String(), JTI: "jti-1"}
}

func (s *RequireAuthSuite) TestMissingHeader() {
	rec := s.serve("")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Missing or invalid Authorization header")
}

func (s *RequireAuthSuite) TestInvalidToken() {
	s.validator.EXPECT().ValidateToken("bad").Return(nil, errors.New("signature invalid"))
	rec := s.serve("Bearer bad")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RequireAuthSuite) TestEndedSession() {
	s.validator.EXPECT().ValidateToken("tok").Return(s.validClaims(), nil)
	s.sessions.EXPECT().IsActive(gomock.Any(), s.sessionID).Return(false, nil)
	rec := s.serve("Bearer tok")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Session has ended")
}

func (s *RequireAuthSuite) TestSessionLookupFailure() {
	s.validator.EXPECT().ValidateToken("tok").Return(s.validClaims(), nil)
	s.sessions.EXPECT().IsActive(gomock.Any(), s.sessionID).Return(false, errors.New("redis down"))
	rec := s.serve("Bearer tok")
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *RequireAuthSuite) TestAuthenticated() {
	s.validator.EXPECT().ValidateToken("tok").Return(s.validClaims(), nil)
	s.sessions.EXPECT().IsActive(gomock.Any(), s.sessionID).Return(true, nil)
	rec := s.serve("Bearer tok")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.userID, s.seenUser)
}

func TestRequireAuthWithoutSessionChecker(t *testing.T) {
	ctrl := gomock.NewController(t)
	validator := mocks.NewMockJWTValidator(ctrl)
	userID := domain.NewUserID()
	validator.EXPECT().ValidateToken("tok").Return(&auth.JWTClaims{
		UserID:    userID.String(),
		SessionID: domain.NewSessionID().String(),
	}, nil)

	h := auth.RequireAuth(validator, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
