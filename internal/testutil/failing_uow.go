package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/jamesfeng2009/forecastdesk/internal/db"
)

// FailingExecUoW wraps a real unit of work and makes the Nth ExecContext
// inside the transaction return Err. Counting starts at 1; reads are not
// counted. It lets tests check that multi-statement writes roll back.
type FailingExecUoW struct {
	Inner  db.UnitOfWork
	FailOn int32
	Err    error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingExec struct {
	db.DBTX
	calls  atomic.Int32
	failOn int32
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.calls.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
