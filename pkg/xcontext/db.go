package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type (
	dbKey   struct{}
	dbTxKey struct{}
)

type dbTransaction struct {
	tx     *gorm.DB
	nested bool
	done   bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current transaction if the context is inside one, otherwise
// the root database.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && t != nil && !t.done {
		return t.tx
	}

	db, _ := ctx.Value(dbKey{}).(*gorm.DB)
	return db
}

// WithDBTransaction begins a transaction. Calling it inside another
// transaction joins the outer one, only the outermost caller can commit or
// rollback.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && t != nil && !t.done {
		return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: t.tx, nested: true})
	}

	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) (context.Context, error) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t == nil || t.done || t.nested {
		return ctx, nil
	}

	t.done = true
	if err := t.tx.Commit().Error; err != nil {
		return context.WithValue(ctx, dbTxKey{}, nil), err
	}

	return context.WithValue(ctx, dbTxKey{}, nil), nil
}

// WithRollbackDBTransaction is safe to be deferred, it does nothing if the
// transaction has been committed.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t == nil || t.done || t.nested {
		return ctx
	}

	t.done = true
	t.tx.Rollback()
	return context.WithValue(ctx, dbTxKey{}, nil)
}
