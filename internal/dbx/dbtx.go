// Package dbx holds the small database/sql helpers shared by the SQL
// repositories: the DBTX interface satisfied by *sql.DB and *sql.Tx, and
// transaction scoping that travels through a context.
package dbx

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is the subset of database/sql the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// ErrNestedTx is returned when WithTx is called inside a running transaction.
var ErrNestedTx = errors.New("nested transactions are not supported")

// WithTx begins a transaction and runs fn with a context that carries it.
// Repositories resolving their handle through Conn pick the transaction up
// automatically. The transaction is committed when fn returns nil and rolled
// back on error or panic; panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context) error {
//	    if err := users.ResetSeenAssignments(ctx); err != nil {
//	        return err
//	    }
//	    return users.SetAssignment(ctx, giver, receiver)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return ErrNestedTx
	}

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

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// Conn returns the transaction carried by ctx, or db when there is none.
func Conn(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
