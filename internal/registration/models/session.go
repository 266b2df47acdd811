package models

import (
	"time"

	id "memberportal/pkg/domain"
)

// PaymentState is the orchestration state of a registration session.
type PaymentState string

const (
	PaymentIdle                PaymentState = "idle"
	PaymentRegistering         PaymentState = "registering"
	PaymentInitializing        PaymentState = "payment_initializing"
	PaymentAwaitingGateway     PaymentState = "awaiting_gateway"
	PaymentPollingVerification PaymentState = "polling_verification"
	PaymentSucceeded           PaymentState = "succeeded"
	PaymentFailed              PaymentState = "failed"
	PaymentUnresolved          PaymentState = "unresolved"
)

// Terminal reports whether no further transition happens without user action.
func (s PaymentState) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentFailed || s == PaymentUnresolved
}

// Active reports whether an orchestration goroutine owns the session.
func (s PaymentState) Active() bool {
	return s != PaymentIdle && !s.Terminal()
}

// FailureStage names the remote call a failed orchestration stopped at.
type FailureStage string

const (
	StageRegistration   FailureStage = "registration"
	StageInitialization FailureStage = "initialization"
	StageVerification   FailureStage = "verification"
)

// Notices shown for each failure stage.
const (
	NoticeRegistrationFailed   = "Registration Failed"
	NoticeInitializationFailed = "Payment Initialization Failed"
	NoticeVerificationFailed   = "Payment Verification Failed"
	NoticeVerificationPending  = "Payment could not be confirmed yet"
)

// RegistrationResult is what the backend returned for the registration submit.
type RegistrationResult struct {
	Successful       bool   `json:"successful"`
	Message          string `json:"message,omitempty"`
	SubscriptionID   string `json:"subscriptionId,omitempty"`
	MembershipNumber string `json:"membershipNumber,omitempty"`
}

// PaymentInit carries the gateway URL the client embeds and the reference
// that ties gateway messages and verification together.
type PaymentInit struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// Verification is the last verification response.
type Verification struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// Confirmation is the summary shown once payment succeeds.
type Confirmation struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	MembershipType   string `json:"membershipType"`
	MembershipNumber string `json:"membershipNumber"`
	Reference        string `json:"reference"`
	PaymentStatus    string `json:"paymentStatus"`
}

// PaymentSnapshot is the externally visible orchestration state.
type PaymentSnapshot struct {
	State         PaymentState        `json:"state"`
	Registration  *RegistrationResult `json:"registration,omitempty"`
	Init          *PaymentInit        `json:"init,omitempty"`
	Verification  *Verification       `json:"verification,omitempty"`
	Confirmation  *Confirmation       `json:"confirmation,omitempty"`
	FailedAt      FailureStage        `json:"failedAt,omitempty"`
	Notice        string              `json:"notice,omitempty"`
	Detail        string              `json:"detail,omitempty"`
	PollStartedAt *time.Time          `json:"pollStartedAt,omitempty"`
	Polls         int                 `json:"polls"`
}

// CanRetryVerification reports whether a manual retry with the same
// reference is offered.
func (p PaymentSnapshot) CanRetryVerification() bool {
	if p.Init == nil || p.Init.Reference == "" {
		return false
	}
	return p.State == PaymentUnresolved || (p.State == PaymentFailed && p.FailedAt == StageVerification)
}

// ResolvedIdentity is the geography and derivation returned for an ID number.
type ResolvedIdentity struct {
	IDNumber      string `json:"idNumber"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	Province      string `json:"province"`
	Municipality  string `json:"municipality"`
	Ward          string `json:"ward"`
	VotingStation string `json:"votingStation"`
}

// ResolutionState mirrors the resolver for the session's ID number.
type ResolutionState struct {
	InFlight bool              `json:"inFlight"`
	Last     *ResolvedIdentity `json:"last,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// RegistrationSession is one run of the wizard.
type RegistrationSession struct {
	ID          id.RegistrationID `json:"id"`
	CurrentStep Step              `json:"currentStep"`
	Form        FormData          `json:"form"`
	Errors      ErrorMap          `json:"errors"`
	Resolution  ResolutionState   `json:"resolution"`
	Payment     PaymentSnapshot   `json:"payment"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

// NewRegistrationSession starts an empty session at the first step.
func NewRegistrationSession(now time.Time, ttl time.Duration) *RegistrationSession {
	return &RegistrationSession{
		ID:          id.NewRegistrationID(),
		CurrentStep: StepIDNumber,
		Errors:      ErrorMap{},
		Payment:     PaymentSnapshot{State: PaymentIdle},
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Expired reports whether the session outlived its TTL.
func (s *RegistrationSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ClearErrors removes the errors of the named fields.
func (s *RegistrationSession) ClearErrors(fields ...string) {
	for _, f := range fields {
		delete(s.Errors, f)
	}
}

// Clone returns a deep copy safe to hand out while the original keeps mutating.
func (s *RegistrationSession) Clone() *RegistrationSession {
	c := *s
	c.Errors = make(ErrorMap, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	if s.Resolution.Last != nil {
		last := *s.Resolution.Last
		c.Resolution.Last = &last
	}
	c.Payment = s.Payment.clone()
	return &c
}

func (p PaymentSnapshot) clone() PaymentSnapshot {
	c := p
	if p.Registration != nil {
		r := *p.Registration
		c.Registration = &r
	}
	if p.Init != nil {
		i := *p.Init
		c.Init = &i
	}
	if p.Verification != nil {
		v := *p.Verification
		c.Verification = &v
	}
	if p.Confirmation != nil {
		cf := *p.Confirmation
		c.Confirmation = &cf
	}
	if p.PollStartedAt != nil {
		t := *p.PollStartedAt
		c.PollStartedAt = &t
	}
	return c
}
