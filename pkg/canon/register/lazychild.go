package register

import (
	"context"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// lazyChildren is the generic lazy-materializing child map every register
// level is built from. Keys are known up front from a manifest's entries
// (or inserted directly when a new child is created by AddEvents), but a
// child's value is not constructed until Get is first called for it, and
// then only once no matter how many goroutines race to load it.
type lazyChildren[T any] struct {
	entries *xsync.MapOf[string, *lazyChild[T]]
}

type lazyChild[T any] struct {
	once  sync.Once
	value T
	err   error
	load  func(ctx context.Context) (T, error)
}

func newLazyChildren[T any]() *lazyChildren[T] {
	return &lazyChildren[T]{entries: xsync.NewMapOf[string, *lazyChild[T]]()}
}

// Declare registers key with a loader, without running it.
func (c *lazyChildren[T]) Declare(key string, load func(ctx context.Context) (T, error)) {
	c.entries.Store(key, &lazyChild[T]{load: load})
}

// Set installs an already-built value for key, e.g. a child just created
// within the current AddEvents call.
func (c *lazyChildren[T]) Set(key string, value T) {
	lc := &lazyChild[T]{value: value}
	lc.once.Do(func() {})
	c.entries.Store(key, lc)
}

// Has reports whether key is a known child, without materializing it.
func (c *lazyChildren[T]) Has(key string) bool {
	_, ok := c.entries.Load(key)
	return ok
}

// Get materializes (if necessary) and returns the child at key.
func (c *lazyChildren[T]) Get(ctx context.Context, key string) (T, bool, error) {
	lc, ok := c.entries.Load(key)
	if !ok {
		var zero T
		return zero, false, nil
	}
	lc.once.Do(func() {
		if lc.load != nil {
			lc.value, lc.err = lc.load(ctx)
		}
	})
	return lc.value, true, lc.err
}

// Keys returns every known key, sorted.
func (c *lazyChildren[T]) Keys() []string {
	keys := make([]string, 0)
	c.entries.Range(func(k string, _ *lazyChild[T]) bool {
		keys = append(keys, k)
		return true
	})
	sort.Strings(keys)
	return keys
}
