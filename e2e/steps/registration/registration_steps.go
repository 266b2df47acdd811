package registration

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	PATCH(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	DELETE(path string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Remember(key, value string)
	Recall(key string) string
}

const registrationKey = "registration_id"

// RegisterSteps registers wizard step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrationSteps{tc: tc}

	ctx.Step(`^I start a registration$`, steps.startRegistration)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, steps.setField)
	ctx.Step(`^I advance the registration$`, steps.advance)
	ctx.Step(`^I go back a step$`, steps.retreat)
	ctx.Step(`^the advance should report an error for "([^"]*)"$`, steps.advanceReportsError)
	ctx.Step(`^the registration should be on step (\d+)$`, steps.registrationOnStep)
	ctx.Step(`^I discard the registration$`, steps.discard)
	ctx.Step(`^I fetch the registration$`, steps.fetch)
}

type registrationSteps struct {
	tc TestContext
}

func (s *registrationSteps) path(suffix string) string {
	return "/registrations/" + s.tc.Recall(registrationKey) + suffix
}

func (s *registrationSteps) startRegistration(ctx context.Context) error {
	if err := s.tc.POST("/registrations", nil); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 201 {
		return fmt.Errorf("start returned %d: %s", s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	regID, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	s.tc.Remember(registrationKey, fmt.Sprint(regID))
	return nil
}

func (s *registrationSteps) setField(ctx context.Context, field, value string) error {
	return s.tc.PATCH(s.path("/form"), map[string]string{field: value})
}

func (s *registrationSteps) advance(ctx context.Context) error {
	return s.tc.POST(s.path("/advance"), nil)
}

func (s *registrationSteps) retreat(ctx context.Context) error {
	return s.tc.POST(s.path("/retreat"), nil)
}

func (s *registrationSteps) advanceReportsError(ctx context.Context, field string) error {
	msg, err := s.tc.GetResponseField("result.errors." + field)
	if err != nil {
		return err
	}
	if fmt.Sprint(msg) == "" {
		return fmt.Errorf("expected an error message for %s", field)
	}
	return nil
}

func (s *registrationSteps) registrationOnStep(ctx context.Context, step int) error {
	if err := s.tc.GET(s.path(""), nil); err != nil {
		return err
	}
	current, err := s.tc.GetResponseField("currentStep")
	if err != nil {
		return err
	}
	if got := fmt.Sprint(current); got != fmt.Sprint(step) {
		return fmt.Errorf("expected step %d, got %s", step, got)
	}
	return nil
}

func (s *registrationSteps) discard(ctx context.Context) error {
	return s.tc.DELETE(s.path(""))
}

func (s *registrationSteps) fetch(ctx context.Context) error {
	return s.tc.GET(s.path(""), nil)
}
