package xlog

import (
	"context"
)

var (
	// C is a short alias of the FromContext function.
	C = FromContext
)

type contextKey struct{}

// FromContext returns the Logger carried by ctx, falling back to the
// default logger.
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		logger = Default()
	}
	return logger
}

// WithContext derives a child context carrying the current logger
// extended with args.
func WithContext(ctx context.Context, args ...any) context.Context {
	logger := FromContext(ctx)
	return context.WithValue(ctx, contextKey{}, logger.With(args...))
}
