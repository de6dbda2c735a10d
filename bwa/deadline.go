package bwa

import (
	"context"
	"time"

	"github.com/advdv/bwire"
)

// DefaultDeadlineBuffer is the default time reserved before the Lambda deadline
// for cleanup, error responses, and graceful shutdown.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// WithRequestDeadline returns middleware that sets a context deadline based on
// the Lambda invocation deadline from LWAContext.
//
// When the x-amzn-lambda-context header is present (indicating Lambda execution),
// the context deadline is set to the invocation deadline minus a buffer. Without
// an LWA context the context is passed through unchanged, and the connection
// deadlines from BW_READ_TIMEOUT and BW_WRITE_TIMEOUT apply.
func WithRequestDeadline(buffer time.Duration) bwire.Middleware {
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	return func(next bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			if lwa := LWA(ctx); lwa != nil {
				if deadline := lwa.DeadlineTime(); !deadline.IsZero() {
					adjusted := deadline.Add(-buffer)

					if time.Until(adjusted) > 0 {
						var cancel context.CancelFunc
						ctx, cancel = context.WithDeadline(ctx, adjusted)
						defer cancel()
					}
				}
			}

			return next.ServeWire(ctx, r)
		})
	}
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return max(time.Until(deadline), 0)
}
