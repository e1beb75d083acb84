package service

import (
	"context"
	"sync"
	"time"

	dErrors "kycmint/pkg/domain-errors"
)

// StoreTx is the atomic boundary of a mutation. The postgres implementation
// wraps a sql.Tx; the in-memory one serializes callers on a single lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(Stores) error) error
}

const defaultTxTimeout = 5 * time.Second

// InMemoryTx serializes every mutation of one contract. It gives isolation
// but no rollback, so operations must check all preconditions before their
// first write.
type InMemoryTx struct {
	mu      sync.Mutex
	stores  Stores
	timeout time.Duration
}

func NewInMemoryTx(stores Stores) *InMemoryTx {
	return &InMemoryTx{stores: stores, timeout: defaultTxTimeout}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(t.stores)
}
