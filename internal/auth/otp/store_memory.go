package otp

import (
	"context"
	"sync"
	"time"

	"memberportal/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{challenges: make(map[string]Challenge)}
}

func (s *InMemoryStore) Save(_ context.Context, c Challenge, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Hash = append([]byte(nil), c.Hash...)
	s.challenges[c.IDNumber] = c
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, idNumber string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[idNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) Delete(_ context.Context, idNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.challenges[idNumber]
	delete(s.challenges, idNumber)
	return ok, nil
}
