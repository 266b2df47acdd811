package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome bool

const (
	fail outcome = false
	ok   outcome = true
)

func record(b *Breaker, outcomes ...outcome) StateChange {
	var last StateChange
	for _, o := range outcomes {
		if o == ok {
			_, last = b.RecordSuccess()
		} else {
			_, last = b.RecordFailure()
		}
	}
	return last
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		outcomes   []outcome
		wantOpen   bool
		wantChange StateChange
	}{
		{
			name:     "new breaker is closed",
			wantOpen: false,
		},
		{
			name:     "failures below threshold keep it closed",
			opts:     []Option{WithFailureThreshold(3)},
			outcomes: []outcome{fail, fail},
			wantOpen: false,
		},
		{
			name:       "threshold failure opens",
			opts:       []Option{WithFailureThreshold(3)},
			outcomes:   []outcome{fail, fail, fail},
			wantOpen:   true,
			wantChange: StateChange{Opened: true},
		},
		{
			name:     "a success between failures starts the count again",
			opts:     []Option{WithFailureThreshold(3)},
			outcomes: []outcome{fail, fail, ok, fail, fail},
			wantOpen: false,
		},
		{
			name:     "open breaker needs consecutive successes",
			opts:     []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes: []outcome{fail, ok},
			wantOpen: true,
		},
		{
			name:       "enough successes close it",
			opts:       []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes:   []outcome{fail, ok, ok},
			wantOpen:   false,
			wantChange: StateChange{Closed: true},
		},
		{
			name:     "a failed probe resets the success run",
			opts:     []Option{WithFailureThreshold(1), WithSuccessThreshold(3)},
			outcomes: []outcome{fail, ok, ok, fail, ok, ok},
			wantOpen: true,
		},
		{
			name:     "further failures while open report no transition",
			opts:     []Option{WithFailureThreshold(1)},
			outcomes: []outcome{fail, fail},
			wantOpen: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("backend", tt.opts...)
			change := record(b, tt.outcomes...)
			assert.Equal(t, tt.wantOpen, b.IsOpen())
			assert.Equal(t, tt.wantChange, change)
		})
	}
}

func TestBreakerReportsFallbackWhileOpen(t *testing.T) {
	b := New("backend", WithFailureThreshold(1))
	useFallback, _ := b.RecordFailure()
	assert.True(t, useFallback)
	assert.Equal(t, "open", b.State().String())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)
}

func TestBreakerAdmitsProbeAfterCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New("backend",
		WithFailureThreshold(1),
		WithCooldown(5*time.Second),
		WithClock(func() time.Time { return now }),
	)
	require.True(t, b.Allow())

	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(6 * time.Second)
	assert.True(t, b.Allow())

	// a failed probe restarts the cooldown
	b.RecordFailure()
	assert.False(t, b.Allow())
}
