// Package members is the local member directory: enrolment of paid-up
// registrations, self-service contact edits, the admin listing and the
// virtual membership card.
package members

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"memberportal/internal/events"
	"memberportal/internal/members/models"
	"memberportal/internal/members/store"
	regmodels "memberportal/internal/registration/models"
	"memberportal/internal/registration/validation"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/sentinel"
	"memberportal/pkg/platform/tx"
)

const (
	numberDigits   = 7
	numberAttempts = 5
	defaultLimit   = 50
	maxLimit       = 200
)

var enrolmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "memberportal_member_enrolments_total",
	Help: "Members written to the directory",
}, []string{"kind"})

type Service struct {
	store     store.Store
	tx        tx.Runner
	publisher events.Publisher
	prefix    string
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithNumberPrefix(p string) Option {
	return func(s *Service) {
		if p != "" {
			s.prefix = p
		}
	}
}

// WithTx runs each enrolment's lookup and write as one transaction.
func WithTx(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
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

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		tx:        tx.NopRunner{},
		publisher: events.NewMemoryPublisher(),
		prefix:    "MBR",
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Enroll writes a paid-up registration to the directory and returns its
// membership number. The backend's number wins; otherwise an existing
// member keeps theirs and a new one gets <prefix><YYYY><7 digits>.
func (s *Service) Enroll(ctx context.Context, form regmodels.FormData, reg regmodels.RegistrationResult, reference string) (string, error) {
	now := s.now()
	m := &models.Member{
		ID:               id.NewMemberID(),
		IDNumber:         form.IDNumber,
		FirstName:        form.FirstName,
		LastName:         form.LastName,
		Email:            form.Email,
		Cellphone:        form.Cellphone,
		Address:          form.Address,
		Province:         form.Province,
		Municipality:     form.Municipality,
		Ward:             form.Ward,
		VotingStation:    form.VotingStation,
		MembershipType:   form.MembershipType,
		MembershipNumber: reg.MembershipNumber,
		PaymentReference: reference,
		Status:           models.StatusActive,
		JoinDate:         now,
		UpdatedAt:        now,
	}
	backendNumber := reg.MembershipNumber
	kind := "new"
	var err error
	for attempt := 0; ; attempt++ {
		generated := false
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			existing, err := s.store.FindByIDNumber(ctx, form.IDNumber)
			switch {
			case err == nil:
				kind = "renewal"
			case errors.Is(err, sentinel.ErrNotFound):
				kind = "new"
			default:
				return err
			}
			m.MembershipNumber = backendNumber
			if m.MembershipNumber == "" && existing != nil {
				m.MembershipNumber = existing.MembershipNumber
			}
			if m.MembershipNumber == "" {
				n, err := s.newMembershipNumber(now)
				if err != nil {
					return err
				}
				m.MembershipNumber = n
				generated = true
			}
			return s.store.Save(ctx, m)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, sentinel.ErrConflict) || !generated || attempt+1 >= numberAttempts {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save member")
		}
	}

	enrolmentsTotal.WithLabelValues(kind).Inc()
	evt := events.New(events.MemberRegistered, m.ID.String(), now, map[string]string{
		"membership_number": m.MembershipNumber,
		"membership_type":   m.MembershipType,
		"province":          m.Province,
		"payment_reference": reference,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"type", string(events.MemberRegistered),
			"member_id", m.ID.String(),
			"error", err,
		)
	}
	s.logger.InfoContext(ctx, "member enrolled",
		"member_id", m.ID.String(),
		"membership_number", m.MembershipNumber,
		"kind", kind,
	)
	return m.MembershipNumber, nil
}

func (s *Service) newMembershipNumber(now time.Time) (string, error) {
	limit := big.NewInt(10_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d%0*d", s.prefix, now.Year(), numberDigits, n.Int64()), nil
}

func (s *Service) FindByIDNumber(ctx context.Context, idNumber string) (*models.Member, error) {
	m, err := s.store.FindByIDNumber(ctx, idNumber)
	return m, s.translate(err)
}

func (s *Service) FindByID(ctx context.Context, memberID id.MemberID) (*models.Member, error) {
	m, err := s.store.FindByID(ctx, memberID)
	return m, s.translate(err)
}

// UpdateContact applies a member's own edit, held to the same rules as the
// registration contact step.
func (s *Service) UpdateContact(ctx context.Context, memberID id.MemberID, u models.ContactUpdate) (*models.Member, error) {
	m, err := s.store.FindByID(ctx, memberID)
	if err != nil {
		return nil, s.translate(err)
	}
	if u.Email != nil {
		m.Email = *u.Email
	}
	if u.Cellphone != nil {
		m.Cellphone = *u.Cellphone
	}
	if u.Address != nil {
		m.Address = *u.Address
	}
	errs := validation.ContactDetails(regmodels.FormData{
		Email:     m.Email,
		Cellphone: m.Cellphone,
		Address:   m.Address,
	}, true)
	for _, field := range []string{regmodels.FieldEmail, regmodels.FieldCellphone, regmodels.FieldAddress} {
		if msg, ok := errs[field]; ok {
			return nil, dErrors.New(dErrors.CodeValidation, msg)
		}
	}
	m.UpdatedAt = s.now()
	if err := s.store.Save(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save member")
	}
	return m, nil
}

// List pages through the directory. Limits are clamped to 1..200.
func (s *Service) List(ctx context.Context, f models.Filter) (*models.Page, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	members, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list members")
	}
	if members == nil {
		members = []*models.Member{}
	}
	return &models.Page{Members: members, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "member not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load member")
	}
}
