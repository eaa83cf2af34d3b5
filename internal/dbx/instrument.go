package dbx

import (
	"context"
	"database/sql"
	"time"
)

// QueryObserver receives the text and duration of every statement executed
// through an instrumented DBTX.
type QueryObserver interface {
	ObserveQuery(query string, duration time.Duration)
}

// Instrument wraps db so every statement is timed and reported to obs.
// A nil observer returns db unchanged.
func Instrument(db DBTX, obs QueryObserver) DBTX {
	if obs == nil {
		return db
	}
	return &instrumentedDBTX{db: db, obs: obs}
}

type instrumentedDBTX struct {
	db  DBTX
	obs QueryObserver
}

func (i *instrumentedDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := i.db.ExecContext(ctx, query, args...)
	i.obs.ObserveQuery(query, time.Since(start))
	return res, err
}

func (i *instrumentedDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := i.db.QueryContext(ctx, query, args...)
	i.obs.ObserveQuery(query, time.Since(start))
	return rows, err
}

func (i *instrumentedDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := i.db.QueryRowContext(ctx, query, args...)
	i.obs.ObserveQuery(query, time.Since(start))
	return row
}
