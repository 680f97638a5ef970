package xcache

import (
	"context"
	"math"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"
)

// NewMemory returns an in-process Cache backed by otter, with concurrent
// loads of the same key coalesced through a singleflight.Group so that N
// goroutines racing to materialize the same manifest only pay for one
// load.
func NewMemory[T any](ttl time.Duration) Cache[T] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cache, err := otter.MustBuilder[string, T](math.MaxInt16).
		WithTTL(ttl).
		Build()
	if err != nil {
		panic(err)
	}
	return &memoryCacheImpl[T]{cache: cache}
}

type memoryCacheImpl[T any] struct {
	cache     otter.Cache[string, T]
	loadGroup singleflight.Group
}

type loadResult[T any] struct {
	value T
	ok    bool
}

// Get returns the cached value for key, or loads and caches it via the
// Loader option on a miss. A load that reports no value stays a miss.
func (s *memoryCacheImpl[T]) Get(ctx context.Context, key string, options ...Option[T]) (T, bool) {
	o := MakeOptions(options...)
	if v, ok := s.cache.Get(key); ok {
		return v, true
	}
	loaded, _, _ := s.loadGroup.Do(key, func() (any, error) {
		value, ok := o.Loader(ctx, key)
		if ok {
			s.cache.Set(key, value)
		}
		return loadResult[T]{value: value, ok: ok}, nil
	})
	result := loaded.(loadResult[T])
	return result.value, result.ok
}

// Set saves value under key, evicting whatever was cached there before.
func (s *memoryCacheImpl[T]) Set(_ context.Context, key string, value T, _ ...Option[T]) {
	s.cache.Set(key, value)
}

// Delete removes the cached value for key, if any.
func (s *memoryCacheImpl[T]) Delete(_ context.Context, key string) {
	s.cache.Delete(key)
}
