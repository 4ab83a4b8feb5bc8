// Package dbx carries the two database primitives the repository and service
// layers are built on. DBTX is the query surface a repository needs, satisfied
// by *sql.DB and *sql.Tx alike, so the repository manager can vend the same
// repository type inside or outside a transaction. WithTx is how services keep
// a mutation and its audit trail entry in one transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the common query surface of *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil, rollback
// when it returns an error or panics (the panic is rethrown after rollback).
// Services hand the tx to repositories through the repository manager, e.g.
//
//	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := s.repomanager.Documents(tx).Delete(ctx, id); err != nil {
//	        return err
//	    }
//	    return s.repomanager.Audit(tx).Create(ctx, entry)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
