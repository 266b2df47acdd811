// Package payment runs the registration and payment flow of a finished
// wizard: register, open a gateway transaction, wait for the gateway's
// completion signal, then poll verification until it settles or times out.
package payment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"memberportal/internal/backend"
	"memberportal/internal/events"
	"memberportal/internal/registration/models"
	id "memberportal/pkg/domain"
	dErrors "memberportal/pkg/domain-errors"
)

//go:generate mockgen -source=orchestrator.go -destination=mocks/orchestrator_mocks.go -package=mocks Backend Enroller

var (
	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "memberportal_payment_outcomes_total",
		Help: "Finished payment orchestrations by outcome",
	}, []string{"outcome"})
	verificationPolls = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "memberportal_payment_verification_polls",
		Help:    "Verification requests issued per polling round",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 30},
	})
	activeRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memberportal_payment_active_orchestrations",
		Help: "Orchestrations currently owning a goroutine",
	})
)

// Backend is the subset of the REST backend the flow mutates.
type Backend interface {
	Register(ctx context.Context, req backend.RegistrationRequest) (*backend.Envelope[backend.RegistrationData], error)
	InitializePayment(ctx context.Context, req backend.PaymentInitRequest) (*backend.Envelope[backend.PaymentInitData], error)
	VerifyPayment(ctx context.Context, reference string) (*backend.Envelope[backend.PaymentVerifyData], error)
}

// Enroller records a paid-up member and returns the membership number.
type Enroller interface {
	Enroll(ctx context.Context, form models.FormData, reg models.RegistrationResult, reference string) (string, error)
}

// UpdateFunc receives every snapshot the orchestration moves through.
type UpdateFunc func(snap models.PaymentSnapshot)

// Orchestrator owns at most one run per registration session. A run is
// forgotten as soon as its goroutine finishes. A run whose state is terminal
// may be replaced while its goroutine winds down; a replaced run no longer
// reports updates.
type Orchestrator struct {
	backend   Backend
	bus       GatewayBus
	enroller  Enroller
	publisher events.Publisher
	interval  time.Duration
	duration  time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time

	mu   sync.Mutex
	runs map[id.RegistrationID]*run
	wg   sync.WaitGroup
}

type Option func(*Orchestrator)

// WithPolling sets the verification interval and the overall polling budget.
func WithPolling(interval, duration time.Duration) Option {
	return func(o *Orchestrator) {
		if interval > 0 {
			o.interval = interval
		}
		if duration > 0 {
			o.duration = duration
		}
	}
}

func WithEnroller(e Enroller) Option {
	return func(o *Orchestrator) { o.enroller = e }
}

func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(b Backend, bus GatewayBus, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:   b,
		bus:       bus,
		publisher: events.NewMemoryPublisher(),
		interval:  2 * time.Second,
		duration:  60 * time.Second,
		logger:    slog.Default(),
		tracer:    otel.Tracer("memberportal/payment"),
		now:       time.Now,
		runs:      make(map[id.RegistrationID]*run),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

type run struct {
	regID    id.RegistrationID
	form     models.FormData
	onUpdate UpdateFunc
	ctx      context.Context
	cancel   context.CancelFunc

	mu   sync.Mutex
	snap models.PaymentSnapshot
}

func (r *run) snapshot() models.PaymentSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// update applies fn and reports the result. Updates after cancellation are
// kept internally but not reported.
func (r *run) update(fn func(s *models.PaymentSnapshot)) models.PaymentSnapshot {
	r.mu.Lock()
	fn(&r.snap)
	snap := r.snap
	r.mu.Unlock()
	if r.ctx.Err() == nil && r.onUpdate != nil {
		r.onUpdate(snap)
	}
	return snap
}

// Start begins a fresh orchestration for form. It fails with a conflict when
// the session already has a run in progress.
func (o *Orchestrator) Start(ctx context.Context, regID id.RegistrationID, form models.FormData, onUpdate UpdateFunc) (models.PaymentSnapshot, error) {
	o.mu.Lock()
	if existing, ok := o.runs[regID]; ok {
		if existing.snapshot().State.Active() {
			o.mu.Unlock()
			return models.PaymentSnapshot{}, dErrors.New(dErrors.CodeConflict, "payment already in progress")
		}
		existing.cancel()
	}
	r := o.newRun(regID, form, onUpdate, models.PaymentSnapshot{State: models.PaymentRegistering})
	o.runs[regID] = r
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "payment orchestration started",
		"registration_id", regID.String(),
	)
	o.spawn(r, o.execute)
	return r.snapshot(), nil
}

// RetryVerification restarts polling with the reference in prior. prior is the
// persisted snapshot, so retries keep working after a process restart.
func (o *Orchestrator) RetryVerification(ctx context.Context, regID id.RegistrationID, form models.FormData, prior models.PaymentSnapshot, onUpdate UpdateFunc) (models.PaymentSnapshot, error) {
	o.mu.Lock()
	existing, ok := o.runs[regID]
	if ok {
		prior = existing.snapshot()
		if prior.State.Active() {
			o.mu.Unlock()
			return models.PaymentSnapshot{}, dErrors.New(dErrors.CodeConflict, "payment already in progress")
		}
	}
	if !prior.CanRetryVerification() {
		o.mu.Unlock()
		return models.PaymentSnapshot{}, dErrors.New(dErrors.CodeConflict, "verification retry is not available")
	}
	if ok {
		existing.cancel()
	}
	r := o.newRun(regID, form, onUpdate, prior)
	o.runs[regID] = r
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "payment verification retried",
		"registration_id", regID.String(),
		"reference", prior.Init.Reference,
	)
	o.spawn(r, o.pollVerification)
	return r.snapshot(), nil
}

// Snapshot returns the live state of the session's run, if any.
func (o *Orchestrator) Snapshot(regID id.RegistrationID) (models.PaymentSnapshot, bool) {
	o.mu.Lock()
	r, ok := o.runs[regID]
	o.mu.Unlock()
	if !ok {
		return models.PaymentSnapshot{}, false
	}
	return r.snapshot(), true
}

// Cancel stops polling, releases the gateway subscription and forgets the run.
// It does not wait for an in-flight backend call to return.
func (o *Orchestrator) Cancel(regID id.RegistrationID) {
	o.mu.Lock()
	r, ok := o.runs[regID]
	delete(o.runs, regID)
	o.mu.Unlock()
	if ok {
		r.cancel()
	}
}

// Shutdown cancels every run and waits for their goroutines until ctx ends.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	for regID, r := range o.runs {
		r.cancel()
		delete(o.runs, regID)
	}
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) newRun(regID id.RegistrationID, form models.FormData, onUpdate UpdateFunc, snap models.PaymentSnapshot) *run {
	ctx, cancel := context.WithCancel(context.Background())
	return &run{
		regID:    regID,
		form:     form,
		onUpdate: onUpdate,
		ctx:      ctx,
		cancel:   cancel,
		snap:     snap,
	}
}

func (o *Orchestrator) spawn(r *run, fn func(ctx context.Context, r *run)) {
	o.wg.Add(1)
	activeRuns.Inc()
	go func() {
		defer o.wg.Done()
		defer activeRuns.Dec()
		ctx, span := o.tracer.Start(r.ctx, "payment.orchestrate",
			trace.WithAttributes(attribute.String("registration.id", r.regID.String())))
		defer span.End()
		fn(ctx, r)
		span.SetAttributes(attribute.String("payment.state", string(r.snapshot().State)))
		o.release(r)
	}()
}

// release forgets a run once its goroutine has delivered the final update.
// The persisted snapshot carries everything a later retry needs.
func (o *Orchestrator) release(r *run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if current, ok := o.runs[r.regID]; ok && current == r {
		delete(o.runs, r.regID)
	}
	r.cancel()
}

func (o *Orchestrator) execute(ctx context.Context, r *run) {
	r.update(func(s *models.PaymentSnapshot) {
		*s = models.PaymentSnapshot{State: models.PaymentRegistering}
	})

	reg, err := o.backend.Register(ctx, toRegistrationRequest(r.form))
	if ctx.Err() != nil {
		return
	}
	if err != nil || !reg.Successful {
		detail := ""
		if err != nil {
			detail = backend.Message(err)
		} else {
			detail = reg.Message
		}
		o.fail(ctx, r, models.StageRegistration, models.NoticeRegistrationFailed, detail, err)
		return
	}
	result := models.RegistrationResult{
		Successful:       true,
		Message:          reg.Message,
		SubscriptionID:   reg.Data.SubscriptionID,
		MembershipNumber: reg.Data.MembershipNumber,
	}
	r.update(func(s *models.PaymentSnapshot) {
		s.Registration = &result
		s.State = models.PaymentInitializing
	})

	init, err := o.backend.InitializePayment(ctx, backend.PaymentInitRequest{
		SubscriptionID: result.SubscriptionID,
		IDNumber:       r.form.IDNumber,
		Email:          r.form.Email,
	})
	if ctx.Err() != nil {
		return
	}
	if err != nil || !init.Successful || init.Data.Reference == "" || init.Data.AuthorizationURL == "" {
		detail := ""
		switch {
		case err != nil:
			detail = backend.Message(err)
		case init.Message != "":
			detail = init.Message
		default:
			detail = "gateway returned no transaction"
		}
		o.fail(ctx, r, models.StageInitialization, models.NoticeInitializationFailed, detail, err)
		return
	}
	reference := init.Data.Reference

	// Subscribe before publishing the URL so a fast gateway cannot be missed.
	completed := make(chan struct{}, 1)
	unsubscribe := o.bus.Subscribe(func(m GatewayMessage) {
		if !m.Matches(reference) {
			return
		}
		select {
		case completed <- struct{}{}:
		default:
		}
	})
	r.update(func(s *models.PaymentSnapshot) {
		s.Init = &models.PaymentInit{AuthorizationURL: init.Data.AuthorizationURL, Reference: reference}
		s.State = models.PaymentAwaitingGateway
	})

	select {
	case <-completed:
		unsubscribe()
	case <-ctx.Done():
		unsubscribe()
		return
	}
	o.logger.InfoContext(ctx, "payment gateway reported completion",
		"registration_id", r.regID.String(),
		"reference", reference,
	)
	o.pollVerification(ctx, r)
}

// pollVerification asks the backend about the reference every interval. The
// first request goes out immediately and none is sent once the polling budget
// measured from it is spent.
func (o *Orchestrator) pollVerification(ctx context.Context, r *run) {
	reference := r.snapshot().Init.Reference
	started := o.now()
	r.update(func(s *models.PaymentSnapshot) {
		s.State = models.PaymentPollingVerification
		s.PollStartedAt = &started
		s.Polls = 0
		s.FailedAt = ""
		s.Notice = ""
		s.Detail = ""
	})

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	polls := 0
	defer func() { verificationPolls.Observe(float64(polls)) }()

	for {
		if ctx.Err() != nil {
			return
		}
		if o.now().Sub(started) >= o.duration {
			o.unresolved(ctx, r, reference)
			return
		}

		resp, err := o.backend.VerifyPayment(ctx, reference)
		if ctx.Err() != nil {
			return
		}
		polls++
		if err != nil {
			r.update(func(s *models.PaymentSnapshot) { s.Polls = polls })
			o.fail(ctx, r, models.StageVerification, models.NoticeVerificationFailed, backend.Message(err), err)
			return
		}

		verification := models.Verification{Status: resp.Data.Status, Reference: resp.Data.Reference}
		if verification.Reference == "" {
			verification.Reference = reference
		}
		r.update(func(s *models.PaymentSnapshot) {
			s.Polls = polls
			s.Verification = &verification
		})
		// Both flags must hold; the backend sets them independently.
		if resp.Successful && resp.Data.Success {
			o.succeed(ctx, r, reference, verification.Status)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) succeed(ctx context.Context, r *run, reference, status string) {
	snap := r.snapshot()
	reg := models.RegistrationResult{}
	if snap.Registration != nil {
		reg = *snap.Registration
	}
	confirmation := models.Confirmation{
		FirstName:        r.form.FirstName,
		LastName:         r.form.LastName,
		Email:            r.form.Email,
		MembershipType:   r.form.MembershipType,
		MembershipNumber: reg.MembershipNumber,
		Reference:        reference,
		PaymentStatus:    status,
	}
	if o.enroller != nil {
		number, err := o.enroller.Enroll(ctx, r.form, reg, reference)
		if err != nil {
			o.logger.ErrorContext(ctx, "failed to enrol paid member",
				"registration_id", r.regID.String(),
				"reference", reference,
				"error", err,
			)
		} else {
			confirmation.MembershipNumber = number
		}
	}
	r.update(func(s *models.PaymentSnapshot) {
		s.State = models.PaymentSucceeded
		s.Confirmation = &confirmation
	})
	outcomesTotal.WithLabelValues("succeeded").Inc()
	o.publish(ctx, events.PaymentVerified, r, map[string]string{"reference": reference, "status": status})
	o.logger.InfoContext(ctx, "payment verified",
		"registration_id", r.regID.String(),
		"reference", reference,
	)
}

func (o *Orchestrator) unresolved(ctx context.Context, r *run, reference string) {
	r.update(func(s *models.PaymentSnapshot) {
		s.State = models.PaymentUnresolved
		s.Notice = models.NoticeVerificationPending
	})
	outcomesTotal.WithLabelValues("unresolved").Inc()
	o.publish(ctx, events.PaymentUnresolved, r, map[string]string{"reference": reference})
	o.logger.WarnContext(ctx, "payment verification unresolved",
		"registration_id", r.regID.String(),
		"reference", reference,
		"budget", o.duration.String(),
	)
}

func (o *Orchestrator) fail(ctx context.Context, r *run, stage models.FailureStage, notice, detail string, cause error) {
	r.update(func(s *models.PaymentSnapshot) {
		s.State = models.PaymentFailed
		s.FailedAt = stage
		s.Notice = notice
		s.Detail = detail
	})
	outcomesTotal.WithLabelValues("failed_" + string(stage)).Inc()
	o.logger.WarnContext(ctx, "payment orchestration failed",
		"registration_id", r.regID.String(),
		"stage", string(stage),
		"detail", detail,
		"error", cause,
	)
}

func (o *Orchestrator) publish(ctx context.Context, t events.Type, r *run, data map[string]string) {
	if err := o.publisher.Publish(ctx, events.New(t, r.regID.String(), o.now(), data)); err != nil {
		o.logger.WarnContext(ctx, "failed to publish event",
			"type", string(t),
			"registration_id", r.regID.String(),
			"error", err,
		)
	}
}

func toRegistrationRequest(f models.FormData) backend.RegistrationRequest {
	return backend.RegistrationRequest{
		IDNumber:         f.IDNumber,
		FirstName:        f.FirstName,
		LastName:         f.LastName,
		DateOfBirth:      f.DateOfBirth,
		Gender:           f.Gender,
		Race:             f.Race,
		Language:         f.Language,
		Nationality:      f.Nationality,
		EmploymentStatus: f.EmploymentStatus,
		Occupation:       f.Occupation,
		Disability:       f.Disability,
		Email:            f.Email,
		Cellphone:        f.Cellphone,
		Address:          f.Address,
		AddressLine2:     f.AddressLine2,
		PostalCode:       f.PostalCode,
		Province:         f.Province,
		Municipality:     f.Municipality,
		Ward:             f.Ward,
		VotingStation:    f.VotingStation,
		MembershipType:   f.MembershipType,
		AcceptTerms:      f.AcceptTerms,
		PaymentMethod:    f.PaymentMethod,
		PaymentAmount:    f.PaymentAmount,
	}
}
