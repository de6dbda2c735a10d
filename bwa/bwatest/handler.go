package bwatest

import (
	"context"

	"github.com/advdv/bwire"
)

// CallHandler parses raw as a request and invokes handler with it, returning the response. The request has no
// connection, so the handler must not resolve it. It panics when raw does not parse or the handler fails, which
// keeps table tests short.
func CallHandler(ctx context.Context, handler bwire.HandlerFunc, raw string) *bwire.Response {
	req, err := bwire.ParseRequest([]byte(raw), nil)
	if err != nil {
		panic("bwatest: ParseRequest failed: " + err.Error())
	}

	res, err := handler(ctx, req)
	if err != nil {
		panic("bwatest: handler returned error: " + err.Error())
	}

	return res
}
