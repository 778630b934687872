package middleware

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	CtxKeyConfig   contextKey = "config"
	CtxKeyManifest contextKey = "manifest"
)

type CommandFactory func() *cobra.Command

type MiddlewareFunc func(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error

type MiddlewareChain func(factory CommandFactory) CommandFactory

type contextKey string

// UseMiddlewareChain runs middlewares, in order, in front of the command's
// own PreRunE. A middleware that does not call next stops the chain.
func UseMiddlewareChain(middlewares ...MiddlewareFunc) MiddlewareChain {
	chain := make([]MiddlewareFunc, len(middlewares))
	copy(chain, middlewares)

	return func(factory CommandFactory) CommandFactory {
		return func() *cobra.Command {
			cmd := factory()
			orig := cmd.PreRunE

			cmd.PreRunE = func(c *cobra.Command, a []string) error {
				var run func(i int) error
				run = func(i int) error {
					if i >= len(chain) {
						if orig != nil {
							return orig(c, a)
						}
						return nil
					}
					return chain[i](c, a, func(*cobra.Command, []string) error {
						return run(i + 1)
					})
				}
				return run(0)
			}
			return cmd
		}
	}
}

// Get fetches a value stored by a middleware.
func Get[T any](cmd *cobra.Command, key contextKey) (T, error) {
	var zero T

	ctx := cmd.Context()
	if ctx == nil {
		return zero, fmt.Errorf("command context is nil")
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, fmt.Errorf("context value %q is nil", key)
	}

	casted, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("context value %q has wrong type: %T", key, val)
	}

	return casted, nil
}
