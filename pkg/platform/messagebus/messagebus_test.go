package messagebus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		bus := New[string]()
		var a, b []string
		unsubA := bus.Subscribe(func(m string) { a = append(a, m) })
		unsubB := bus.Subscribe(func(m string) { b = append(b, m) })
		defer unsubA()
		defer unsubB()

		bus.Publish("hello")

		assert.Equal(t, []string{"hello"}, a)
		assert.Equal(t, []string{"hello"}, b)
	})

	t.Run("unsubscribed handlers receive nothing", func(t *testing.T) {
		bus := New[string]()
		var got []string
		unsub := bus.Subscribe(func(m string) { got = append(got, m) })
		unsub()
		unsub()

		bus.Publish("late")

		assert.Empty(t, got)
		assert.Equal(t, 0, bus.Subscribers())
	})

	t.Run("handler may unsubscribe itself", func(t *testing.T) {
		bus := New[int]()
		calls := 0
		var unsub func()
		unsub = bus.Subscribe(func(int) {
			calls++
			unsub()
		})

		bus.Publish(1)
		bus.Publish(2)

		assert.Equal(t, 1, calls)
	})
}
