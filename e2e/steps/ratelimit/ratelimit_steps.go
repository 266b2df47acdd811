package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
	SetClientIP(ip string)
}

// RegisterSteps registers per-IP throttling step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I am calling from a fresh IP address$`, steps.freshIP)
	ctx.Step(`^I request a login code for ID number "([^"]*)" (\d+) times$`, steps.requestCodeNTimes)
	ctx.Step(`^the last response should carry a Retry-After header$`, steps.retryAfterPresent)
}

type ratelimitSteps struct {
	tc TestContext
}

// freshIP picks an address from the documentation range so runs do not share
// windows with each other.
func (s *ratelimitSteps) freshIP(ctx context.Context) error {
	s.tc.SetClientIP(fmt.Sprintf("198.51.%d.%d", rand.IntN(256), 1+rand.IntN(254)))
	return nil
}

func (s *ratelimitSteps) requestCodeNTimes(ctx context.Context, idNumber string, n int) error {
	for i := 0; i < n; i++ {
		if err := s.tc.POST("/auth/otp/request", map[string]string{"idNumber": idNumber}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ratelimitSteps) retryAfterPresent(ctx context.Context) error {
	raw := s.tc.GetLastResponseHeader("Retry-After")
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fmt.Errorf("expected a positive Retry-After, got %q", raw)
	}
	return nil
}
