// Package xcontext provides small context helpers: typed value
// plumbing and a non-blocking cancellation check.
package xcontext

import (
	"context"
	"fmt"
	"strings"
)

// NonBlockingCheck checks context as a non-blocking select and returns
// an error if the context is done.
func NonBlockingCheck(ctx context.Context, msgs ...string) error {
	select {
	case <-ctx.Done():
		if len(msgs) == 0 {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, ":"), ctx.Err())
	default:
	}
	return nil
}

type valueKey[T any] struct{}

// WithValue stores value in ctx keyed by its type, so at most one value
// of a given type is carried at a time.
func WithValue[T any](ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, valueKey[T]{}, value)
}

// GetValue returns the value of type T stored by WithValue, if any.
func GetValue[T any](ctx context.Context) (T, bool) {
	value, ok := ctx.Value(valueKey[T]{}).(T)
	return value, ok
}
