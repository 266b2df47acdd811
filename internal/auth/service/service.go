// Package service runs portal login: one-time codes for directory members,
// bearer-token sessions and the member's self-service profile.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"memberportal/internal/auth/models"
	"memberportal/internal/events"
	"memberportal/internal/idnumber"
	jwttoken "memberportal/internal/jwt_token"
	memberModels "memberportal/internal/members/models"
	"memberportal/internal/registration/devassist"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/email"
	"memberportal/pkg/platform/middleware/device"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/requestcontext"
)

const tokenType = "Bearer"

var loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "memberportal_auth_logins_total",
	Help: "Portal login attempts by result",
}, []string{"result"})

//go:generate mockgen -source=service.go -destination=mocks/service_mocks.go -package=mocks Directory Sessions Codes Tokens Sender

// Directory is the member directory logins are checked against.
type Directory interface {
	FindByIDNumber(ctx context.Context, idNumber string) (*memberModels.Member, error)
	UpdateContact(ctx context.Context, memberID id.MemberID, u memberModels.ContactUpdate) (*memberModels.Member, error)
	Card(ctx context.Context, memberID id.MemberID) ([]byte, error)
}

type Sessions interface {
	Login(ctx context.Context, sess models.Session) error
	Logout(ctx context.Context, sessionID id.SessionID) error
	UpdateUser(ctx context.Context, sessionID id.SessionID, u models.UserUpdate) (*models.AuthenticatedUser, error)
	User(ctx context.Context, sessionID id.SessionID) (*models.AuthenticatedUser, error)
}

type Codes interface {
	Issue(ctx context.Context, idNumber string) (string, time.Time, error)
	Verify(ctx context.Context, idNumber, code string) error
}

type Tokens interface {
	GenerateAccessToken(userID id.UserID, sessionID id.SessionID, expiresIn time.Duration) (jwttoken.Issued, error)
}

// Sender delivers a login code to the member.
type Sender interface {
	Send(ctx context.Context, member *memberModels.Member, code string) error
}

type Service struct {
	directory Directory
	sessions  Sessions
	codes     Codes
	tokens    Tokens
	sender    Sender
	publisher events.Publisher
	tokenTTL  time.Duration
	devAssist bool
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func WithSender(sender Sender) Option {
	return func(s *Service) {
		if sender != nil {
			s.sender = sender
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithDevAssist echoes issued codes in the response. Only honoured in
// devassist builds.
func WithDevAssist(flag bool) Option {
	return func(s *Service) {
		s.devAssist = devassist.Enabled(flag)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(directory Directory, sessions Sessions, codes Codes, tokens Tokens, opts ...Option) *Service {
	s := &Service{
		directory: directory,
		sessions:  sessions,
		codes:     codes,
		tokens:    tokens,
		publisher: events.NewMemoryPublisher(),
		tokenTTL:  12 * time.Hour,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sender == nil {
		s.sender = NewLogSender(s.logger)
	}
	return s
}

// RequestOTP sends a login code to the member holding idNumber.
func (s *Service) RequestOTP(ctx context.Context, idNumber string) (*models.OTPIssued, error) {
	if !idnumber.Valid(idNumber) {
		return nil, dErrors.New(dErrors.CodeValidation, "ID Number must be 13 digits")
	}
	member, err := s.directory.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	code, expiresAt, err := s.codes.Issue(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if err := s.sender.Send(ctx, member, code); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to send code")
	}
	issued := &models.OTPIssued{
		Destination: email.Mask(member.Email),
		ExpiresAt:   expiresAt,
	}
	if s.devAssist {
		issued.DevCode = code
	}
	return issued, nil
}

// VerifyOTP exchanges a code for a bearer token and logs the member in.
func (s *Service) VerifyOTP(ctx context.Context, idNumber, code, userAgent string) (*models.LoginResult, error) {
	if err := s.codes.Verify(ctx, idNumber, code); err != nil {
		loginsTotal.WithLabelValues("rejected").Inc()
		s.logger.WarnContext(ctx, "login code rejected", "error", err)
		return nil, err
	}
	member, err := s.directory.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, err
	}

	user := toAuthenticatedUser(member)
	sessionID := id.NewSessionID()
	issued, err := s.tokens.GenerateAccessToken(user.UserID, sessionID, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	now := s.clock(ctx)
	sess := models.Session{
		ID:        sessionID,
		User:      user,
		Token:     issued.Token,
		TokenJTI:  issued.JTI,
		Device:    device.Label(userAgent),
		CreatedAt: now,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.sessions.Login(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to start session")
	}
	loginsTotal.WithLabelValues("ok").Inc()

	evt := events.New(events.MemberLoggedIn, member.ID.String(), now, map[string]string{
		"session_id": sessionID.String(),
		"device":     sess.Device,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"type", string(events.MemberLoggedIn),
			"member_id", member.ID.String(),
			"error", err,
		)
	}
	s.logger.InfoContext(ctx, "member logged in",
		"member_id", member.ID.String(),
		"session_id", sessionID.String(),
		"device", sess.Device,
	)

	return &models.LoginResult{
		AccessToken: issued.Token,
		TokenType:   tokenType,
		ExpiresAt:   issued.ExpiresAt,
		Device:      sess.Device,
		User:        user,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) error {
	if err := s.sessions.Logout(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end session")
	}
	return nil
}

// Me returns the logged-in member's dashboard profile.
func (s *Service) Me(ctx context.Context, sessionID id.SessionID) (*models.AuthenticatedUser, error) {
	user, err := s.sessions.User(ctx, sessionID)
	if err != nil {
		return nil, translateSession(err)
	}
	return user, nil
}

// UpdateMe writes a contact edit to the directory first, then to the session.
func (s *Service) UpdateMe(ctx context.Context, sessionID id.SessionID, u models.UserUpdate) (*models.AuthenticatedUser, error) {
	if u.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}
	user, err := s.sessions.User(ctx, sessionID)
	if err != nil {
		return nil, translateSession(err)
	}
	if _, err := s.directory.UpdateContact(ctx, id.MemberID(user.UserID), memberModels.ContactUpdate{
		Email:     u.Email,
		Cellphone: u.Cellphone,
		Address:   u.Address,
	}); err != nil {
		return nil, err
	}
	updated, err := s.sessions.UpdateUser(ctx, sessionID, u)
	if err != nil {
		return nil, translateSession(err)
	}
	return updated, nil
}

// Card renders the logged-in member's virtual membership card.
func (s *Service) Card(ctx context.Context, sessionID id.SessionID) ([]byte, error) {
	user, err := s.sessions.User(ctx, sessionID)
	if err != nil {
		return nil, translateSession(err)
	}
	return s.directory.Card(ctx, id.MemberID(user.UserID))
}

func toAuthenticatedUser(m *memberModels.Member) models.AuthenticatedUser {
	return models.AuthenticatedUser{
		UserID:           id.UserID(m.ID),
		IDNumber:         m.IDNumber,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Cellphone:        m.Cellphone,
		Address:          m.Address,
		Province:         m.Province,
		Municipality:     m.Municipality,
		Ward:             m.Ward,
		VotingStation:    m.VotingStation,
		MembershipType:   m.MembershipType,
		MembershipNumber: m.MembershipNumber,
		JoinDate:         m.JoinDate,
	}
}

func translateSession(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrExpired):
		return dErrors.New(dErrors.CodeUnauthorized, "session has ended")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
}

// clock prefers an injected clock, then the request time stamped by the
// requesttime middleware.
func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}
