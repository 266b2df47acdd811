// Package events publishes membership lifecycle events. Publishing is best
// effort: callers log failures and carry on.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names an event on the wire.
type Type string

const (
	MemberRegistered  Type = "member.registered"
	PaymentVerified   Type = "payment.verified"
	PaymentUnresolved Type = "payment.unresolved"
	MemberLoggedIn    Type = "member.logged_in"
)

// Event is the envelope written to the topic. Subject is the partition key:
// a registration ID for payment events, a member ID for member events.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	Subject    string            `json:"subject"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data,omitempty"`
}

// New stamps an event with a fresh ID.
func New(t Type, subject string, at time.Time, data map[string]string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Subject:    subject,
		OccurredAt: at.UTC(),
		Data:       data,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// MemoryPublisher keeps events in process, for single-node setups and tests.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// OfType filters Events by type.
func (p *MemoryPublisher) OfType(t Type) []Event {
	var out []Event
	for _, e := range p.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
