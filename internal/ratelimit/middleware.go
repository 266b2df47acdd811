package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/httputil"
	"memberportal/pkg/platform/middleware/metadata"
	"memberportal/pkg/platform/middleware/request"
)

var rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "memberportal_ratelimit_rejected_total",
	Help: "Requests rejected by rate limiting, by policy",
}, []string{"policy"})

type Limiter struct {
	store    Store
	logger   *slog.Logger
	disabled bool
	now      func() time.Time
}

type Option func(*Limiter)

// WithDisabled turns every check into a pass, for local demos.
func WithDisabled(disabled bool) Option {
	return func(l *Limiter) {
		l.disabled = disabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

func New(store Store, logger *slog.Logger, opts ...Option) *Limiter {
	l := &Limiter{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// PerIP limits requests by client IP under policy p. A store failure lets the
// request through.
func (l *Limiter) PerIP(p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil || l.disabled {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			ip := metadata.ClientIPFromRequest(r)
			result, err := l.store.Allow(ctx, p.Name+":"+ip, p.Limit, p.Window)
			if err != nil {
				l.logger.ErrorContext(ctx, "failed to check rate limit",
					"policy", p.Name,
					"request_id", request.GetRequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			if !result.Allowed {
				rejectedTotal.WithLabelValues(p.Name).Inc()
				l.logger.WarnContext(ctx, "rate limit exceeded",
					"policy", p.Name,
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter(l.now())))
				httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests, "Too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
