// Package example implements example middleware in an outside package.
package example

import (
	"context"

	"github.com/advdv/bwire"
	"go.uber.org/zap"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *zap.Logger) bwire.Middleware {
	return func(n bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			logs := logs.With(zap.String("method", r.Method), zap.String("path", r.Path))

			return n.ServeWire(context.WithValue(ctx, ctxKey("zap"), logs), r)
		})
	}
}

// Log returns the logger added by [Middleware], or a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	if v, ok := ctx.Value(ctxKey("zap")).(*zap.Logger); ok {
		return v
	}

	return zap.NewNop()
}
