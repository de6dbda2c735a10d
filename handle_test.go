package bwire_test

import (
	"context"
	"testing"

	"github.com/advdv/bwire"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type testCtxKey struct{}

func handleCtx1(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
	if r.Path == "/trigger-error" {
		return nil, errors.New("triggered error")
	}

	username, _ := ctx.Value(testCtxKey{}).(string)
	return bwire.NewResponse(201, "Created").
		AddHeader("Is-Bar", "rab").
		SetBodyString("hello " + username + ", at " + r.Path), nil
}

func serveRaw(t *testing.T, h bwire.Handler, raw string, logs bwire.Logger) *bwire.Response {
	t.Helper()
	req, err := bwire.ParseRequest([]byte(raw), nil)
	require.NoError(t, err)

	ctx := context.WithValue(t.Context(), testCtxKey{}, "foo")
	return bwire.Serve(ctx, h, req, logs)
}

func TestHandleBasic(t *testing.T) {
	logs := bwire.NewTestLogger(t)
	res := serveRaw(t, bwire.HandlerFunc(handleCtx1), "GET /bar HTTP/1.1\r\n\r\n", logs)

	require.Equal(t, uint16(201), res.Status)
	require.Equal(t, "rab", res.Header.Get("Is-Bar"))
	require.Equal(t, "hello foo, at /bar", string(res.Body))
	require.Equal(t, int64(0), logs.NumLogUnhandledServeError)
}

func TestHandleDefaultError(t *testing.T) {
	logs := bwire.NewTestLogger(t)
	res := serveRaw(t, bwire.HandlerFunc(handleCtx1), "GET /trigger-error HTTP/1.1\r\n\r\n", logs)

	require.Equal(t, uint16(500), res.Status)
	require.Empty(t, res.Header.Get("Is-Bar"))
	require.Equal(t, "Internal Server Error", res.ReasonPhrase)
	require.Empty(t, res.Body)
	require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
}

func TestHandleCodedError(t *testing.T) {
	logs := bwire.NewTestLogger(t)
	h := bwire.HandlerFunc(func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return nil, errors.Wrap(bwire.NewError(bwire.CodeForbidden, errors.New("invalid token")), "check")
	})

	res := serveRaw(t, h, "GET / HTTP/1.1\r\n\r\n", logs)
	require.Equal(t, uint16(403), res.Status)
	require.Equal(t, "Forbidden", res.ReasonPhrase)
	require.Equal(t, "invalid token", string(res.Body))
	require.Equal(t, int64(0), logs.NumLogUnhandledServeError)
}

func TestHandleNilResponse(t *testing.T) {
	logs := bwire.NewTestLogger(t)
	h := bwire.HandlerFunc(func(context.Context, *bwire.Request) (*bwire.Response, error) { return nil, nil })

	res := serveRaw(t, h, "GET / HTTP/1.1\r\n\r\n", logs)
	require.Equal(t, uint16(500), res.Status)
	require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
}
