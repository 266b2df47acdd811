package handler

import (
	"time"

	"memberportal/internal/registration/models"
	"memberportal/internal/registration/wizard"
)

// SessionResponse is the wizard state a client renders from.
type SessionResponse struct {
	ID          string                 `json:"id"`
	CurrentStep int                    `json:"currentStep"`
	StepTitle   string                 `json:"stepTitle"`
	StepCount   int                    `json:"stepCount"`
	StepView    models.StepView        `json:"stepView"`
	Form        models.FormData        `json:"form"`
	Errors      models.ErrorMap        `json:"errors"`
	Resolution  models.ResolutionState `json:"resolution"`
	Payment     PaymentResponse        `json:"payment"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}

// PaymentResponse adds the retry affordance to the orchestration snapshot.
type PaymentResponse struct {
	models.PaymentSnapshot
	CanRetryVerification bool `json:"canRetryVerification"`
}

type AdvanceResponse struct {
	Result  wizard.AdvanceResult `json:"result"`
	Session SessionResponse      `json:"session"`
}

func toSessionResponse(s *models.RegistrationSession) SessionResponse {
	errs := s.Errors
	if errs == nil {
		errs = models.ErrorMap{}
	}
	return SessionResponse{
		ID:          s.ID.String(),
		CurrentStep: int(s.CurrentStep),
		StepTitle:   s.CurrentStep.String(),
		StepCount:   models.StepCount(),
		StepView:    s.Form.ViewFor(s.CurrentStep),
		Form:        s.Form,
		Errors:      errs,
		Resolution:  s.Resolution,
		Payment:     toPaymentResponse(s.Payment),
		ExpiresAt:   s.ExpiresAt,
	}
}

func toPaymentResponse(p models.PaymentSnapshot) PaymentResponse {
	return PaymentResponse{PaymentSnapshot: p, CanRetryVerification: p.CanRetryVerification()}
}
