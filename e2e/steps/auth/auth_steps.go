package auth

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	SetAccessToken(token string)
}

// RegisterSteps registers portal login step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I request a login code for ID number "([^"]*)"$`, steps.requestCode)
	ctx.Step(`^I verify login code "([^"]*)" for ID number "([^"]*)"$`, steps.verifyCode)
	ctx.Step(`^I request my profile with token "([^"]*)"$`, steps.profileWithToken)
	ctx.Step(`^I request my profile without a token$`, steps.profileWithoutToken)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) requestCode(ctx context.Context, idNumber string) error {
	return s.tc.POST("/auth/otp/request", map[string]string{"idNumber": idNumber})
}

func (s *authSteps) verifyCode(ctx context.Context, code, idNumber string) error {
	return s.tc.POST("/auth/otp/verify", map[string]string{"idNumber": idNumber, "code": code})
}

func (s *authSteps) profileWithToken(ctx context.Context, token string) error {
	s.tc.SetAccessToken(token)
	return s.tc.GET("/me", nil)
}

func (s *authSteps) profileWithoutToken(ctx context.Context) error {
	s.tc.SetAccessToken("")
	return s.tc.GET("/me", nil)
}
