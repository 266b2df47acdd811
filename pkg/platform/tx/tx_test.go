package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "memberportal/pkg/domain-errors"
)

func TestWithTxAndFrom(t *testing.T) {
	ctx := context.Background()
	_, ok := From(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, WithTx(ctx, nil))

	sqlTx := &sql.Tx{}
	got, ok := From(WithTx(ctx, sqlTx))
	require.True(t, ok)
	assert.Same(t, sqlTx, got)
}

func TestConnPrefersTransaction(t *testing.T) {
	ctx := context.Background()
	db := &sql.DB{}
	assert.Same(t, db, Conn(ctx, db))

	sqlTx := &sql.Tx{}
	assert.Same(t, sqlTx, Conn(WithTx(ctx, sqlTx), db))
}

func TestNopRunnerPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	called := false
	err := NopRunner{}.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		_, inTx := From(ctx)
		assert.False(t, inTx)
		return boom
	})
	assert.True(t, called)
	assert.ErrorIs(t, err, boom)
}

func TestSQLRunnerRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSQLRunner(nil).RunInTx(ctx, func(context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}
