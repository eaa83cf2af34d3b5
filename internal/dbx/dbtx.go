// Package dbx is the seam between the repositories and database/sql.
// Repositories are written against DBTX, so the same query code runs on the
// pooled *sql.DB, on a transaction opened by WithTx, or behind the timing
// wrapper returned by Instrument that feeds the slow-query log.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the statement surface the repositories use. *sql.DB, *sql.Tx and
// the wrapper returned by Instrument all satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics; a panic
// continues up the stack after the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
