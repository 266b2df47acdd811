package store

import (
	"context"
	"sync"

	"memberportal/internal/auth/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
)

// MemoryPersister keeps sessions for the life of the process.
type MemoryPersister struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{sessions: make(map[id.SessionID]models.Session)}
}

func (p *MemoryPersister) LoadAll(_ context.Context) ([]models.Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Session, 0, len(p.sessions))
	for _, sess := range p.sessions {
		out = append(out, sess)
	}
	return out, nil
}

func (p *MemoryPersister) Load(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sess, ok := p.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sess, nil
}

func (p *MemoryPersister) Save(_ context.Context, sess models.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[sess.ID] = sess
	return nil
}

func (p *MemoryPersister) Delete(_ context.Context, sessionID id.SessionID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, sessionID)
	return nil
}
