// Package ratelimit throttles the endpoints that are cheap to call and
// expensive to serve: login code requests and ID lookups against the backend.
// Limits are sliding windows keyed by client IP.
package ratelimit

import (
	"context"
	"time"
)

// Policy is a limit per window for one class of endpoint.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	// OTP bounds login code requests and verifications.
	OTP = Policy{Name: "otp", Limit: 10, Window: 15 * time.Minute}
	// Lookup bounds registration starts and ID resolutions.
	Lookup = Policy{Name: "lookup", Limit: 30, Window: time.Minute}
)

// Result is the outcome of one check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window frees a slot.
func (r Result) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

// Store counts requests per key.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}
