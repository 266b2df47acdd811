package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("SAST", 2*60*60))

	require.NoError(t, p.Publish(context.Background(), New(PaymentVerified, "reg-1", at, map[string]string{"reference": "ref-1"})))
	require.NoError(t, p.Publish(context.Background(), New(MemberRegistered, "mem-1", at, nil)))

	all := p.Events()
	require.Len(t, all, 2)
	assert.NotEmpty(t, all[0].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)
	assert.Equal(t, time.UTC, all[0].OccurredAt.Location())

	verified := p.OfType(PaymentVerified)
	require.Len(t, verified, 1)
	assert.Equal(t, "ref-1", verified[0].Data["reference"])

	all[0].Subject = "mutated"
	assert.Equal(t, "reg-1", p.Events()[0].Subject)
}
