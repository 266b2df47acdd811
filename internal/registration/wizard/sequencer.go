package wizard

import (
	"context"

	"memberportal/internal/registration/models"
	"memberportal/internal/registration/validation"
)

// AdvanceResult reports what an advance did. Submitted is set when the final
// step passed validation and handed the form to the payment flow.
type AdvanceResult struct {
	Step      models.Step     `json:"step"`
	Advanced  bool            `json:"advanced"`
	Submitted bool            `json:"submitted"`
	Errors    models.ErrorMap `json:"errors"`
}

// SubmitFunc runs when the final step validates.
type SubmitFunc func(ctx context.Context, s *models.RegistrationSession) error

// Sequencer moves one session through the fixed step order. It only checks
// that the active step's error map is empty; the rules live in validation.
type Sequencer struct {
	session  *models.RegistrationSession
	validate bool
	submit   SubmitFunc
}

func NewSequencer(session *models.RegistrationSession, validate bool, submit SubmitFunc) *Sequencer {
	return &Sequencer{session: session, validate: validate, submit: submit}
}

func (q *Sequencer) CurrentStep() int {
	return int(q.session.CurrentStep)
}

// Advance validates the active step. Its errors replace the session's and
// leave the step unchanged; a clean non-final step moves forward and a clean
// final step calls submit.
func (q *Sequencer) Advance(ctx context.Context) (AdvanceResult, error) {
	step := q.session.CurrentStep
	errs := validation.ForStep(step)(q.session.Form, q.validate)
	if errs == nil {
		errs = models.ErrorMap{}
	}
	q.session.Errors = errs
	if len(errs) > 0 {
		return AdvanceResult{Step: step, Errors: errs}, nil
	}

	if step == models.FinalStep {
		if q.submit != nil {
			if err := q.submit(ctx, q.session); err != nil {
				return AdvanceResult{Step: step, Errors: models.ErrorMap{}}, err
			}
		}
		return AdvanceResult{Step: step, Submitted: true, Errors: models.ErrorMap{}}, nil
	}

	q.session.CurrentStep = step + 1
	return AdvanceResult{Step: q.session.CurrentStep, Advanced: true, Errors: models.ErrorMap{}}, nil
}

// Retreat moves back one step, stopping at the first.
func (q *Sequencer) Retreat() {
	if q.session.CurrentStep > models.StepIDNumber {
		q.session.CurrentStep--
	}
}
