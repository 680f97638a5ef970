// Package xcache provides a small generic cache abstraction used to
// memoize expensive, idempotent loads (manifests, entry checksums)
// in front of the storage backends.
package xcache

import (
	"context"

	"github.com/arxiv/canonical/pkg/util/xgeneric"
)

// Cache is a generic key/value memoization cache.
type Cache[T any] interface {
	// Get returns the value of the key, loading it via the Loader option
	// (if one is given and the key is absent) and populating the cache.
	Get(ctx context.Context, key string, options ...Option[T]) (T, bool)
	// Set saves the value of the key.
	Set(ctx context.Context, key string, value T, options ...Option[T])
	// Delete removes the value of the key.
	Delete(ctx context.Context, key string)
}

// ValueLoader loads the value of a key absent from the cache.
type ValueLoader[T any] func(ctx context.Context, key string) (T, bool)

// Option configures a Get or Set call.
type Option[T any] func(*Options[T])

// Options carries the per-call configuration assembled from Option values.
type Options[T any] struct {
	Loader ValueLoader[T]
}

// WithLoader sets the value loader used on a cache miss.
func WithLoader[T any](loader ValueLoader[T]) Option[T] {
	return func(o *Options[T]) {
		o.Loader = loader
	}
}

// MakeOptions builds an Options from the given Option values.
func MakeOptions[T any](options ...Option[T]) *Options[T] {
	o := &Options[T]{}
	for _, apply := range options {
		apply(o)
	}
	if o.Loader == nil {
		o.Loader = func(_ context.Context, _ string) (T, bool) {
			return xgeneric.ZeroValue[T](), false
		}
	}
	return o
}
