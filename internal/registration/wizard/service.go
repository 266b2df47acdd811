// Package wizard drives registration sessions: field edits, identity
// resolution, step navigation and the hand-off to the payment flow.
package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"memberportal/internal/backend"
	"memberportal/internal/payment"
	"memberportal/internal/registration/devassist"
	"memberportal/internal/registration/models"
	"memberportal/internal/registration/store"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/wizard_mocks.go -package=mocks Resolver Orchestrator MembershipTypes

// Resolver looks up the geography for an identity number.
type Resolver interface {
	Resolve(ctx context.Context, idNumber string) (*models.ResolvedIdentity, error)
	InFlight(idNumber string) bool
}

// Orchestrator runs the registration and payment flow of a submitted session.
type Orchestrator interface {
	Start(ctx context.Context, regID id.RegistrationID, form models.FormData, onUpdate payment.UpdateFunc) (models.PaymentSnapshot, error)
	RetryVerification(ctx context.Context, regID id.RegistrationID, form models.FormData, prior models.PaymentSnapshot, onUpdate payment.UpdateFunc) (models.PaymentSnapshot, error)
	Snapshot(regID id.RegistrationID) (models.PaymentSnapshot, bool)
	Cancel(regID id.RegistrationID)
}

// MembershipTypes lists the types with their minimum donation.
type MembershipTypes interface {
	MembershipTypes(ctx context.Context) ([]backend.MembershipType, error)
}

// Service owns registration sessions. Every mutation of a session happens
// under that session's lock and ends with a save.
type Service struct {
	store        store.Store
	resolver     Resolver
	orchestrator Orchestrator
	types        MembershipTypes
	logger       *slog.Logger
	ttl          time.Duration
	devAssist    bool
	now          func() time.Time

	mu    sync.Mutex
	locks map[id.RegistrationID]*sessionLock
}

type Option func(*Service)

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithDevAssist turns on developer assistance when the binary allows it.
func WithDevAssist(flag bool) Option {
	return func(s *Service) { s.devAssist = devassist.Enabled(flag) }
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

func NewService(st store.Store, resolver Resolver, orchestrator Orchestrator, types MembershipTypes, opts ...Option) *Service {
	s := &Service{
		store:        st,
		resolver:     resolver,
		orchestrator: orchestrator,
		types:        types,
		logger:       slog.Default(),
		ttl:          2 * time.Hour,
		now:          time.Now,
		locks:        make(map[id.RegistrationID]*sessionLock),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ValidationEnabled reports whether step validators run.
func (s *Service) ValidationEnabled() bool {
	return !s.devAssist
}

// sessionLock serialises mutations of one session. The entry lives only while
// a caller holds or waits on it, so finished and swept sessions leave nothing
// behind.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (s *Service) lock(regID id.RegistrationID) func() {
	s.mu.Lock()
	l, ok := s.locks[regID]
	if !ok {
		l = &sessionLock{}
		s.locks[regID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, regID)
		}
		s.mu.Unlock()
	}
}

// Start opens a new session at the first step.
func (s *Service) Start(ctx context.Context) (*models.RegistrationSession, error) {
	session := models.NewRegistrationSession(s.now(), s.ttl)
	if s.devAssist {
		if err := devassist.Prefill(&session.Form, s.now()); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to prefill registration")
		}
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	s.logger.InfoContext(ctx, "registration started",
		"registration_id", session.ID.String(),
		"dev_assist", s.devAssist,
	)
	return session, nil
}

// Get returns the session with the live resolution flag.
func (s *Service) Get(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error) {
	session, err := s.load(ctx, regID)
	if err != nil {
		return nil, err
	}
	s.decorate(session)
	return session, nil
}

// UpdateForm applies a partial edit. Errors of edited fields are cleared and
// rejected cascade edits are reported as field errors.
func (s *Service) UpdateForm(ctx context.Context, regID id.RegistrationID, patch models.FormPatch) (*models.RegistrationSession, error) {
	unlock := s.lock(regID)
	defer unlock()

	session, err := s.load(ctx, regID)
	if err != nil {
		return nil, err
	}
	if session.Payment.State.Active() || session.Payment.State == models.PaymentSucceeded {
		return nil, dErrors.New(dErrors.CodeConflict, "registration can no longer be edited")
	}

	previousID := session.Form.IDNumber
	changed, rejected := session.Form.Apply(patch, s.now())
	session.ClearErrors(changed...)
	session.ClearErrors(patchedFields(patch)...)
	for field, msg := range rejected {
		session.Errors[field] = msg
	}
	if session.Form.IDNumber != previousID {
		session.Resolution = models.ResolutionState{}
	}
	if patch.MembershipType != nil {
		if err := s.refreshMinimum(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.decorate(session)
	return session, nil
}

func (s *Service) refreshMinimum(ctx context.Context, session *models.RegistrationSession) error {
	if session.Form.MembershipType == "" {
		session.Form.MinimumDonationAmount = ""
		return nil
	}
	types, err := s.types.MembershipTypes(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load membership types",
			"registration_id", session.ID.String(),
			"error", err,
		)
		return backend.ToDomain(err, "failed to load membership types")
	}
	for _, t := range types {
		if t.ID == session.Form.MembershipType {
			session.Form.MinimumDonationAmount = t.MinimumDonationAmount
			session.ClearErrors(models.FieldMembershipType)
			return nil
		}
	}
	session.Form.MinimumDonationAmount = ""
	session.Errors[models.FieldMembershipType] = "Unknown membership type"
	return nil
}

// ResolveID looks up the session's identity number and fills the geography.
// The lookup runs without the session lock so the number's in-flight state
// is observable; a result for a number edited away meanwhile is discarded.
// Calling it again after a failure retries.
func (s *Service) ResolveID(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error) {
	session, err := s.load(ctx, regID)
	if err != nil {
		return nil, err
	}
	idNumber := session.Form.IDNumber

	resolved, resolveErr := s.resolver.Resolve(ctx, idNumber)

	unlock := s.lock(regID)
	defer unlock()
	session, err = s.load(ctx, regID)
	if err != nil {
		return nil, err
	}
	if session.Form.IDNumber != idNumber {
		s.decorate(session)
		return session, nil
	}

	if resolveErr != nil {
		msg := resolveErr.Error()
		if de, ok := dErrors.As(resolveErr); ok {
			msg = de.Message
		}
		session.Resolution = models.ResolutionState{Error: msg}
		if dErrors.HasCode(resolveErr, dErrors.CodeInvalidInput) {
			session.Errors[models.FieldIDNumber] = msg
		}
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "identity resolution failed",
			"registration_id", regID.String(),
			"error", resolveErr,
		)
		return nil, resolveErr
	}

	session.Resolution = models.ResolutionState{Last: resolved}
	changed := session.Form.SetGeography(resolved.Province, resolved.Municipality, resolved.Ward, resolved.VotingStation)
	session.ClearErrors(changed...)
	session.ClearErrors(models.FieldIDNumber)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.decorate(session)
	return session, nil
}

// Advance runs the sequencer. On the final step a clean form starts the
// payment flow unless one is running, succeeded or awaits a verification retry.
func (s *Service) Advance(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, AdvanceResult, error) {
	unlock := s.lock(regID)
	defer unlock()

	session, err := s.load(ctx, regID)
	if err != nil {
		return nil, AdvanceResult{}, err
	}
	if session.CurrentStep == models.StepIDNumber && session.Form.IDNumber != "" && s.resolver.InFlight(session.Form.IDNumber) {
		return nil, AdvanceResult{}, dErrors.New(dErrors.CodeConflict, "identity lookup still in progress")
	}
	if session.CurrentStep == models.FinalStep {
		if err := checkSubmittable(session.Payment); err != nil {
			return nil, AdvanceResult{}, err
		}
	}

	seq := NewSequencer(session, s.ValidationEnabled(), s.submit)
	result, err := seq.Advance(ctx)
	if err != nil {
		return nil, AdvanceResult{}, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, AdvanceResult{}, err
	}
	s.decorate(session)
	return session, result, nil
}

func checkSubmittable(p models.PaymentSnapshot) error {
	switch {
	case p.State.Active():
		return dErrors.New(dErrors.CodeConflict, "payment already in progress")
	case p.State == models.PaymentSucceeded:
		return dErrors.New(dErrors.CodeConflict, "registration already completed")
	case p.CanRetryVerification():
		return dErrors.New(dErrors.CodeConflict, "payment awaits verification; retry verification instead")
	}
	return nil
}

func (s *Service) submit(ctx context.Context, session *models.RegistrationSession) error {
	snap, err := s.orchestrator.Start(ctx, session.ID, session.Form, s.paymentUpdater(session.ID))
	if err != nil {
		return err
	}
	session.Payment = snap
	return nil
}

// Retreat moves back one step. It is refused while payment is under way.
func (s *Service) Retreat(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error) {
	unlock := s.lock(regID)
	defer unlock()

	session, err := s.load(ctx, regID)
	if err != nil {
		return nil, err
	}
	if session.Payment.State.Active() {
		return nil, dErrors.New(dErrors.CodeConflict, "payment already in progress")
	}
	NewSequencer(session, s.ValidationEnabled(), nil).Retreat()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.decorate(session)
	return session, nil
}

// Payment returns the orchestration snapshot, live when a run exists.
func (s *Service) Payment(ctx context.Context, regID id.RegistrationID) (models.PaymentSnapshot, error) {
	if snap, ok := s.orchestrator.Snapshot(regID); ok {
		return snap, nil
	}
	session, err := s.load(ctx, regID)
	if err != nil {
		return models.PaymentSnapshot{}, err
	}
	return session.Payment, nil
}

// RetryVerification polls again with the reference already issued.
func (s *Service) RetryVerification(ctx context.Context, regID id.RegistrationID) (models.PaymentSnapshot, error) {
	unlock := s.lock(regID)
	defer unlock()

	session, err := s.load(ctx, regID)
	if err != nil {
		return models.PaymentSnapshot{}, err
	}
	snap, err := s.orchestrator.RetryVerification(ctx, regID, session.Form, session.Payment, s.paymentUpdater(regID))
	if err != nil {
		return models.PaymentSnapshot{}, err
	}
	session.Payment = snap
	if err := s.save(ctx, session); err != nil {
		return models.PaymentSnapshot{}, err
	}
	return snap, nil
}

// Discard cancels any payment run and deletes the session.
func (s *Service) Discard(ctx context.Context, regID id.RegistrationID) error {
	unlock := s.lock(regID)
	s.orchestrator.Cancel(regID)
	err := s.store.Delete(ctx, regID)
	unlock()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard registration")
	}
	s.logger.InfoContext(ctx, "registration discarded", "registration_id", regID.String())
	return nil
}

// SweepExpired deletes sessions past their TTL.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "expired registrations removed", "count", removed)
	}
	return removed, nil
}

// StartCleanup sweeps expired sessions every interval until ctx is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.WarnContext(ctx, "registration cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// paymentUpdater persists orchestration progress. The orchestrator's live
// snapshot wins over the reported one so a late update never rolls state back.
func (s *Service) paymentUpdater(regID id.RegistrationID) payment.UpdateFunc {
	return func(snap models.PaymentSnapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		unlock := s.lock(regID)
		defer unlock()
		if live, ok := s.orchestrator.Snapshot(regID); ok {
			snap = live
		}
		session, err := s.store.FindByID(ctx, regID)
		if err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				s.logger.WarnContext(ctx, "failed to load registration for payment update",
					"registration_id", regID.String(),
					"error", err,
				)
			}
			return
		}
		session.Payment = snap
		if snap.State == models.PaymentSucceeded {
			session.Form.PaymentCompleted = true
		}
		if err := s.save(ctx, session); err != nil {
			s.logger.WarnContext(ctx, "failed to persist payment update",
				"registration_id", regID.String(),
				"state", string(snap.State),
				"error", err,
			)
		}
	}
}

func (s *Service) load(ctx context.Context, regID id.RegistrationID) (*models.RegistrationSession, error) {
	session, err := s.store.FindByID(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	if session.Errors == nil {
		session.Errors = models.ErrorMap{}
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, session *models.RegistrationSession) error {
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}
	return nil
}

func (s *Service) decorate(session *models.RegistrationSession) {
	if session.Form.IDNumber != "" {
		session.Resolution.InFlight = s.resolver.InFlight(session.Form.IDNumber)
	}
}

func patchedFields(p models.FormPatch) []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add(models.FieldIDNumber, p.IDNumber != nil)
	add(models.FieldFirstName, p.FirstName != nil)
	add(models.FieldLastName, p.LastName != nil)
	add(models.FieldRace, p.Race != nil)
	add(models.FieldLanguage, p.Language != nil)
	add(models.FieldNationality, p.Nationality != nil)
	add(models.FieldEmploymentStatus, p.EmploymentStatus != nil)
	add(models.FieldOccupation, p.Occupation != nil)
	add(models.FieldDisability, p.Disability != nil)
	add(models.FieldEmail, p.Email != nil)
	add(models.FieldCellphone, p.Cellphone != nil)
	add(models.FieldAddress, p.Address != nil)
	add(models.FieldAddressLine2, p.AddressLine2 != nil)
	add(models.FieldPostalCode, p.PostalCode != nil)
	add(models.FieldProvince, p.Province != nil)
	add(models.FieldMunicipality, p.Municipality != nil)
	add(models.FieldWard, p.Ward != nil)
	add(models.FieldVotingStation, p.VotingStation != nil)
	add(models.FieldMembershipType, p.MembershipType != nil)
	add(models.FieldAcceptTerms, p.AcceptTerms != nil)
	add(models.FieldPaymentMethod, p.PaymentMethod != nil)
	add(models.FieldPaymentAmount, p.PaymentAmount != nil)
	return fields
}
