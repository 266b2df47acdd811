package e2e

import (
	"context"

	"github.com/cucumber/godog"

	"memberportal/e2e/steps/auth"
	"memberportal/e2e/steps/common"
	"memberportal/e2e/steps/ratelimit"
	"memberportal/e2e/steps/registration"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.Reset()
		return c, nil
	})

	common.RegisterSteps(ctx, tc)
	registration.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
