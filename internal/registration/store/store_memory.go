package store

import (
	"context"
	"sync"
	"time"

	"memberportal/internal/registration/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in process. Sessions are cloned on the way in
// and out so callers never share state with the map.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.RegistrationID]*models.RegistrationSession
	now      func() time.Time
}

type MemoryOption func(*InMemoryStore)

// WithMemoryClock sets the clock FindByID judges expiry by. It should be the
// clock the wizard stamps sessions with.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[id.RegistrationID]*models.RegistrationSession),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, session *models.RegistrationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, regID id.RegistrationID) (*models.RegistrationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[regID]
	if !ok || session.Expired(s.now()) {
		return nil, sentinel.ErrNotFound
	}
	return session.Clone(), nil
}

func (s *InMemoryStore) Delete(_ context.Context, regID id.RegistrationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, regID)
	return nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for regID, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, regID)
			removed++
		}
	}
	return removed, nil
}
