package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"memberportal/internal/members/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.RWMutex
	byID       map[id.MemberID]*models.Member
	byIDNumber map[string]id.MemberID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:       make(map[id.MemberID]*models.Member),
		byIDNumber: make(map[string]id.MemberID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.byID {
		if other.MembershipNumber == m.MembershipNumber && other.IDNumber != m.IDNumber {
			return sentinel.ErrConflict
		}
	}
	c := *m
	if existing, ok := s.byIDNumber[m.IDNumber]; ok {
		c.ID = existing
		c.JoinDate = s.byID[existing].JoinDate
		m.ID = existing
		m.JoinDate = c.JoinDate
	}
	s.byID[c.ID] = &c
	s.byIDNumber[c.IDNumber] = c.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, memberID id.MemberID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[memberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (s *InMemoryStore) FindByIDNumber(_ context.Context, idNumber string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID, ok := s.byIDNumber[idNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *s.byID[memberID]
	return &c, nil
}

func (s *InMemoryStore) List(_ context.Context, f models.Filter) ([]*models.Member, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var matched []*models.Member
	for _, m := range s.byID {
		if len(f.Provinces) > 0 && !slices.Contains(f.Provinces, m.Province) {
			continue
		}
		if q != "" && !matchesQuery(m, q) {
			continue
		}
		c := *m
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].JoinDate.Equal(matched[j].JoinDate) {
			return matched[i].JoinDate.After(matched[j].JoinDate)
		}
		return matched[i].MembershipNumber < matched[j].MembershipNumber
	})
	total := len(matched)
	if f.Offset >= total {
		return []*models.Member{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func matchesQuery(m *models.Member, q string) bool {
	for _, v := range []string{m.FirstName, m.LastName, m.IDNumber, m.MembershipNumber} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
