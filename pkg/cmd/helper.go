// Package cmd provides common building blocks for cli commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ActionFunc is the function shape *cli.Command hooks accept.
type ActionFunc func(ctx context.Context, cmd *cli.Command) error

// AsBeforeFunc adapts an ActionFunc for use as a cli.BeforeFunc.
func AsBeforeFunc(fn ActionFunc) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		return ctx, fn(ctx, cmd)
	}
}

// ExactArgs returns an error unless exactly n positional args are given.
func ExactArgs(n int) ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		args := cmd.Args()
		if args.Len() != n {
			return fmt.Errorf("accepts %d arg(s), received %d", n, args.Len())
		}
		return nil
	}
}

// NoArgs returns an error if any positional args are given.
func NoArgs() ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		args := cmd.Args()
		if args.Len() > 0 {
			return fmt.Errorf("no args required for %q, received %q", cmd.FullName(), args.First())
		}
		return nil
	}
}
