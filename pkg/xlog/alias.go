package xlog

import (
	"fmt"
	"log/slog"
)

// Attr is an alias of slog.Attr.
type Attr = slog.Attr

// Level aliases re-export slog's levels so callers configuring xlog
// don't need a second import.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// NewLevelVar returns a slog.LevelVar initialized to lvl.
func NewLevelVar(lvl slog.Level) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(lvl)
	return v
}

// try runs fn, converting a panic into an error so one misbehaving
// handler cannot take down the caller.
func try(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return fn()
}

const badKey = "!BADKEY"

// argsToAttrSlice converts loosely-typed key-value arguments into Attrs
// following the same convention as slog.Logger.Log.
func argsToAttrSlice(args []any) []slog.Attr {
	var (
		attr  slog.Attr
		attrs []slog.Attr
	)
	for len(args) > 0 {
		attr, args = argsToAttr(args)
		attrs = append(attrs, attr)
	}
	return attrs
}

func argsToAttr(args []any) (slog.Attr, []any) {
	switch x := args[0].(type) {
	case string:
		if len(args) == 1 {
			return slog.String(badKey, x), nil
		}
		return slog.Any(x, args[1]), args[2:]
	case slog.Attr:
		return x, args[1:]
	default:
		return slog.Any(badKey, x), args[1:]
	}
}
