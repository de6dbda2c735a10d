package bwire

import (
	"context"
)

// Handler serves a single request. It returns the response to write, or an error that is turned into one. Errors
// created with [NewError] keep their status code, any other error becomes a 500 response.
type Handler interface {
	ServeWire(ctx context.Context, r *Request) (*Response, error)
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(context.Context, *Request) (*Response, error)

// ServeWire implements the [Handler] interface.
func (f HandlerFunc) ServeWire(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// Serve invokes h and always returns a response that can be written. Unhandled errors are reported to logs before
// they are converted.
func Serve(ctx context.Context, h Handler, r *Request, logs Logger) *Response {
	res, err := h.ServeWire(ctx, r)
	if err != nil {
		if CodeOf(err) == CodeUnknown {
			logs.LogUnhandledServeError(err)
		}
		return errorResponse(err)
	}

	if res == nil {
		logs.LogUnhandledServeError(ErrNilResponse)
		return InternalServerError()
	}

	return res
}
