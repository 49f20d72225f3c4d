package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/xerkit/internal/db"
)

// FailingInsertUoW behaves like the real unit of work except that the Nth
// insert into Table fails with Err. It lets tests break a run store half
// way through and check that nothing was kept.
type FailingInsertUoW struct {
	DB    *sql.DB
	Table string
	Nth   int
	Err   error
}

func (u *FailingInsertUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingInsert{DBTX: tx, prefix: "INSERT INTO " + u.Table + " ", nth: u.Nth, err: u.Err})
	})
}

type failingInsert struct {
	db.DBTX
	prefix string
	seen   int
	nth    int
	err    error
}

func (f *failingInsert) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.HasPrefix(strings.TrimSpace(query), f.prefix) {
		f.seen++
		if f.seen == f.nth {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
