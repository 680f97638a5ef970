package xcache

import (
	"context"
)

// NewDiscard returns a Cache implementation that discards everything
// written to it, useful as the no-op default when caching is disabled.
func NewDiscard[T any]() Cache[T] {
	return discardCacheImpl[T]{}
}

type discardCacheImpl[T any] struct{}

// Get never has a cached value: it passes straight through to the
// Loader option (if any) and stores nothing.
func (discardCacheImpl[T]) Get(ctx context.Context, key string, options ...Option[T]) (T, bool) {
	return MakeOptions(options...).Loader(ctx, key)
}

// Set is a no-op.
func (discardCacheImpl[T]) Set(_ context.Context, _ string, _ T, _ ...Option[T]) {}

// Delete is a no-op.
func (discardCacheImpl[T]) Delete(_ context.Context, _ string) {}
