// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces; the implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// ReadOnlyManager runs a function inside a read-only transaction.
//
// Report services use it so that every fetch leg of one report (inbound,
// outbound, lots, reference data) reads the same snapshot when the store
// supports it.
type ReadOnlyManager interface {
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Direct is a ReadOnlyManager that runs fn without a transaction.
// Stores without snapshot support (the in-memory source) use it.
type Direct struct{}

// ReadOnly implements ReadOnlyManager.
func (Direct) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
