// Package otp issues and checks one-time login codes. Codes are stored only
// as bcrypt hashes and are single use.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	dErrors "memberportal/pkg/domain-errors"
	"memberportal/pkg/platform/sentinel"
)

const (
	codeDigits         = 6
	defaultTTL         = 5 * time.Minute
	defaultMaxAttempts = 5
)

// Challenge is an outstanding code for one identity number.
type Challenge struct {
	IDNumber  string    `json:"idNumber"`
	Hash      []byte    `json:"hash"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ChallengeStore keeps one challenge per identity number. Delete reports
// whether the challenge was still there, which makes a code single use.
type ChallengeStore interface {
	Save(ctx context.Context, c Challenge, ttl time.Duration) error
	Find(ctx context.Context, idNumber string) (*Challenge, error)
	Delete(ctx context.Context, idNumber string) (bool, error)
}

type Manager struct {
	store       ChallengeStore
	ttl         time.Duration
	maxAttempts int
	cost        int
	now         func() time.Time
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(m *Manager) {
		m.cost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(store ChallengeStore, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		ttl:         defaultTTL,
		maxAttempts: defaultMaxAttempts,
		cost:        bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Issue replaces any outstanding challenge for idNumber with a fresh code.
func (m *Manager) Issue(ctx context.Context, idNumber string) (string, time.Time, error) {
	code, err := newCode()
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), m.cost)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash code")
	}
	expiresAt := m.now().Add(m.ttl)
	c := Challenge{IDNumber: idNumber, Hash: hash, ExpiresAt: expiresAt}
	if err := m.store.Save(ctx, c, m.ttl); err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store code")
	}
	return code, expiresAt, nil
}

// Verify consumes the challenge when code matches. A wrong code counts an
// attempt; the challenge is dropped once attempts run out.
func (m *Manager) Verify(ctx context.Context, idNumber, code string) error {
	c, err := m.store.Find(ctx, idNumber)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeUnauthorized, "no active code, request a new one")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load code")
	}
	now := m.now()
	if !now.Before(c.ExpiresAt) {
		_, _ = m.store.Delete(ctx, idNumber)
		return dErrors.New(dErrors.CodeUnauthorized, "code has expired, request a new one")
	}
	if c.Attempts >= m.maxAttempts {
		_, _ = m.store.Delete(ctx, idNumber)
		return dErrors.New(dErrors.CodeUnauthorized, "too many attempts, request a new one")
	}

	if bcrypt.CompareHashAndPassword(c.Hash, []byte(code)) != nil {
		c.Attempts++
		if c.Attempts >= m.maxAttempts {
			_, _ = m.store.Delete(ctx, idNumber)
			return dErrors.New(dErrors.CodeUnauthorized, "too many attempts, request a new one")
		}
		if err := m.store.Save(ctx, *c, c.ExpiresAt.Sub(now)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attempt")
		}
		return dErrors.New(dErrors.CodeUnauthorized, "incorrect code")
	}

	claimed, err := m.store.Delete(ctx, idNumber)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume code")
	}
	if !claimed {
		return dErrors.New(dErrors.CodeUnauthorized, "code already used")
	}
	return nil
}

func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
