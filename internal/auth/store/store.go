// Package store holds logged-in portal sessions. Every mutation is written
// through to a Persister so sessions survive restarts and are shared between
// instances.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"memberportal/internal/auth/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "memberportal_auth_sessions_cached",
	Help: "Portal sessions held in the process cache",
})

//go:generate mockgen -source=store.go -destination=mocks/store_mocks.go -package=mocks Persister

// Persister is the durable side of the store.
type Persister interface {
	LoadAll(ctx context.Context) ([]models.Session, error)
	Load(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Delete(ctx context.Context, sessionID id.SessionID) error
}

// Store caches sessions in process on top of a Persister.
type Store struct {
	persister Persister
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		now:       time.Now,
		sessions:  make(map[id.SessionID]models.Session),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Init loads persisted sessions that have not expired.
func (s *Store) Init(ctx context.Context) error {
	loaded, err := s.persister.LoadAll(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range loaded {
		if sess.Expired(now) {
			continue
		}
		s.sessions[sess.ID] = sess
	}
	activeSessions.Set(float64(len(s.sessions)))
	return nil
}

// Login creates or replaces a session.
func (s *Store) Login(ctx context.Context, sess models.Session) error {
	if err := s.persister.Save(ctx, sess); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	return nil
}

// Logout destroys a session. Unknown sessions are not an error.
func (s *Store) Logout(ctx context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	return s.persister.Delete(ctx, sessionID)
}

// UpdateUser applies a partial profile edit and persists the session.
func (s *Store) UpdateUser(ctx context.Context, sessionID id.SessionID, u models.UserUpdate) (*models.AuthenticatedUser, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	u.Apply(&sess.User)
	if err := s.persister.Save(ctx, *sess); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[sessionID] = *sess
	s.mu.Unlock()
	user := sess.User
	return &user, nil
}

// IsAuthenticated reports whether the session exists and has not expired.
func (s *Store) IsAuthenticated(ctx context.Context, sessionID id.SessionID) bool {
	_, err := s.session(ctx, sessionID)
	return err == nil
}

// IsActive is the middleware's session check.
func (s *Store) IsActive(ctx context.Context, sessionID id.SessionID) (bool, error) {
	_, err := s.session(ctx, sessionID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrExpired):
		return false, nil
	default:
		return false, err
	}
}

func (s *Store) User(ctx context.Context, sessionID id.SessionID) (*models.AuthenticatedUser, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user := sess.User
	return &user, nil
}

func (s *Store) Token(ctx context.Context, sessionID id.SessionID) (string, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// session reads through the cache. A miss falls back to the persister so a
// login made on another instance is honoured.
func (s *Store) session(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		loaded, err := s.persister.Load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		sess = *loaded
		s.mu.Lock()
		s.sessions[sessionID] = sess
		s.mu.Unlock()
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, sentinel.ErrExpired
	}
	return &sess, nil
}
