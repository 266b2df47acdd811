// Package resolution resolves an identity number into its derived date of
// birth and gender plus the electoral-roll geography, and serves the geo
// search lists used to correct that geography by hand.
package resolution

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"memberportal/internal/backend"
	"memberportal/internal/idnumber"
	"memberportal/internal/registration/models"
	dErrors "memberportal/pkg/domain-errors"
)

//go:generate mockgen -source=resolver.go -destination=mocks/resolver_mocks.go -package=mocks VotingInfoClient

var resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "memberportal_id_resolutions_total",
	Help: "Identity resolutions by outcome",
}, []string{"outcome"})

// MsgInvalidIDNumber replaces backend checksum failures.
const MsgInvalidIDNumber = "Invalid ID Number"

// VotingInfoClient is the remote half of a resolution.
type VotingInfoClient interface {
	VotingInfo(ctx context.Context, idNumber string) (*backend.VotingInfo, error)
}

// Resolver de-duplicates concurrent lookups for the same identity number and
// caches successful ones.
type Resolver struct {
	client   VotingInfoClient
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group
	mu       sync.RWMutex
	inFlight map[string]struct{}
}

type Option func(*Resolver)

func WithCache(c Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func NewResolver(client VotingInfoClient, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		cache:    NewMemoryCache(),
		ttl:      10 * time.Minute,
		logger:   slog.Default(),
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve derives and looks up idNumber. Callers asking for the same number
// while a lookup runs share its result. The shared lookup is detached from
// any one caller's cancellation; a caller whose ctx ends just stops waiting.
func (r *Resolver) Resolve(ctx context.Context, idNumber string) (*models.ResolvedIdentity, error) {
	derived, ok := idnumber.Parse(idNumber, r.now())
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ID number must be exactly 13 digits")
	}

	if cached, ok := r.Last(ctx, idNumber); ok {
		resolutionsTotal.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	ch := r.group.DoChan(idNumber, func() (any, error) {
		return r.lookup(context.WithoutCancel(ctx), idNumber, derived)
	})
	select {
	case res := <-ch:
		if res.Shared {
			resolutionsTotal.WithLabelValues("shared").Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		v := *res.Val.(*models.ResolvedIdentity)
		return &v, nil
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "identity lookup abandoned")
	}
}

func (r *Resolver) lookup(ctx context.Context, idNumber string, derived idnumber.Derived) (*models.ResolvedIdentity, error) {
	r.mu.Lock()
	r.inFlight[idNumber] = struct{}{}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inFlight, idNumber)
		r.mu.Unlock()
	}()

	info, err := r.client.VotingInfo(ctx, idNumber)
	if err != nil {
		resolutionsTotal.WithLabelValues("error").Inc()
		r.logger.WarnContext(ctx, "identity lookup failed",
			"error", err,
		)
		return nil, translateLookupError(err)
	}

	resolved := &models.ResolvedIdentity{
		IDNumber:      idNumber,
		DateOfBirth:   derived.DateOfBirth,
		Gender:        string(derived.Gender),
		Province:      info.ProvinceID,
		Municipality:  info.MunicipalityID,
		Ward:          info.WardID,
		VotingStation: info.VotingStationID,
	}
	if err := r.cache.Set(ctx, idNumber, resolved, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "failed to cache identity resolution",
			"error", err,
		)
	}
	resolutionsTotal.WithLabelValues("resolved").Inc()
	return resolved, nil
}

// translateLookupError rewrites checksum failures into a plain message and
// passes every other backend message through unchanged.
func translateLookupError(err error) error {
	msg := backend.Message(err)
	if strings.Contains(msg, "Checksum") {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, MsgInvalidIDNumber)
	}
	code := dErrors.CodeUpstream
	if de, ok := dErrors.As(backend.ToDomain(err, msg)); ok {
		code = de.Code
	}
	return dErrors.Wrap(err, code, msg)
}

// InFlight reports whether a lookup for idNumber is running.
func (r *Resolver) InFlight(idNumber string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.inFlight[idNumber]
	return ok
}

// Last returns the most recent successful resolution still cached.
func (r *Resolver) Last(ctx context.Context, idNumber string) (*models.ResolvedIdentity, bool) {
	cached, ok, err := r.cache.Get(ctx, idNumber)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to read cached identity resolution",
			"error", err,
		)
		return nil, false
	}
	return cached, ok
}
