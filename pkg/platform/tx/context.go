// Package tx threads a database/sql transaction through context so stores
// join the unit of work their caller opened.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// DBTX is what Postgres stores query through: the pool or an open
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func WithTx(ctx context.Context, t *sql.Tx) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, t)
}

func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(txKey{}).(*sql.Tx)
	return t, ok
}

// Conn returns the transaction carried by ctx, else db.
func Conn(ctx context.Context, db *sql.DB) DBTX {
	if t, ok := From(ctx); ok {
		return t
	}
	return db
}
