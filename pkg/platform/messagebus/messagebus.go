// Package messagebus is an in-process publish/subscribe channel. Every
// subscription is scoped: Subscribe returns the function that releases it and
// callers must invoke it on teardown so late messages are never delivered to
// handlers that no longer own the state they mutate.
package messagebus

import "sync"

// Bus fans a published message out to the handlers subscribed at publish time.
type Bus[T any] struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]func(T)
}

func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers fn and returns an idempotent unsubscribe function.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers msg synchronously to every current subscriber. Handlers
// run outside the bus lock so they may unsubscribe themselves.
func (b *Bus[T]) Publish(msg T) {
	b.mu.RLock()
	handlers := make([]func(T), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(msg)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
