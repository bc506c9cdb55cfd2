package persistence

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey is keyed by the root connection so a transaction opened
// on one store never captures writes aimed at another. The mirrored
// repositories depend on this: remote and local stores each resolve
// their own transaction.
type txContextKey struct {
	root *gorm.DB
}

// WithTx returns a context that routes statements against root through
// the open transaction tx.
func WithTx(ctx context.Context, root, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{root: root}, tx)
}

// dbFor resolves the connection a repository should use: the
// context-carried transaction for its root store when one is open,
// the root connection otherwise.
func dbFor(ctx context.Context, root *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{root: root}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return root.WithContext(ctx)
}

// Atomically runs fn inside a single database transaction. Repositories
// built on this store pick the transaction up from the context, so
// every write inside fn commits or rolls back as one unit.
func (d *Database) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, d.DB, tx))
	})
}
