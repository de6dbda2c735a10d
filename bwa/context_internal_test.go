package bwa

import (
	"context"
	"testing"
	"time"

	"github.com/advdv/bwire"
	"github.com/advdv/bwire/jsonval"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const lwaHeader = `{"request_id":"req-1","deadline":1700000000000,` +
	`"invoked_function_arn":"arn:aws:lambda:us-east-1:123456789012:function:fn",` +
	`"xray_trace_id":"Root=1-5759e988-bd862e3fe1be46a994272793",` +
	`"env_config":{"function_name":"fn","memory":512,"version":"$LATEST",` +
	`"log_group":"/aws/lambda/fn","log_stream":"2024/01/01/[$LATEST]abc"}}`

func TestParseLWAContext(t *testing.T) {
	t.Run("full context", func(t *testing.T) {
		lc, err := ParseLWAContext(lwaHeader)
		require.NoError(t, err)

		assert.Equal(t, &LWAContext{
			RequestID:          "req-1",
			Deadline:           1700000000000,
			InvokedFunctionARN: "arn:aws:lambda:us-east-1:123456789012:function:fn",
			XRayTraceID:        "Root=1-5759e988-bd862e3fe1be46a994272793",
			EnvConfig: LWAEnvConfig{
				FunctionName: "fn",
				Memory:       512,
				Version:      "$LATEST",
				LogGroup:     "/aws/lambda/fn",
				LogStream:    "2024/01/01/[$LATEST]abc",
			},
		}, lc)
		assert.Equal(t, time.UnixMilli(1700000000000), lc.DeadlineTime())
		assert.Zero(t, lc.RemainingTime())
	})

	t.Run("missing members stay zero", func(t *testing.T) {
		lc, err := ParseLWAContext(`{"request_id": "req-2"}`)
		require.NoError(t, err)
		assert.Equal(t, "req-2", lc.RequestID)
		assert.True(t, lc.DeadlineTime().IsZero())
		assert.Zero(t, lc.RemainingTime())
		assert.Zero(t, lc.EnvConfig)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseLWAContext(`{"request_id" "x"}`)
		require.ErrorIs(t, err, jsonval.ErrMissingColon)
	})

	t.Run("deadline is not a number", func(t *testing.T) {
		_, err := ParseLWAContext(`{"deadline": "soon"}`)
		require.Error(t, err)
	})
}

func TestWithLWAContext(t *testing.T) {
	var got *LWAContext
	h := bwire.Wrap(bwire.HandlerFunc(func(ctx context.Context, _ *bwire.Request) (*bwire.Response, error) {
		got = LWA(ctx)
		return bwire.OK(), nil
	}), withLWAContext())

	_, err := h.ServeWire(t.Context(), parseRequest(t, "GET / HTTP/1.1\r\nx-amzn-lambda-context: "+lwaHeader+"\r\n\r\n"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "req-1", got.RequestID)

	_, err = h.ServeWire(t.Context(), parseRequest(t, "GET / HTTP/1.1\r\nx-amzn-lambda-context: {oops\r\n\r\n"))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = h.ServeWire(t.Context(), parseRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWithRequestDep(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := &requestDep{logger: zap.New(core)}

	var seen string
	h := bwire.Wrap(bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
		seen = RequestID(ctx)
		Log(ctx).Info("handling")
		if r.Path == "/fail" {
			return nil, bwire.NewError(bwire.CodeForbidden, errors.New("denied"))
		}
		return bwire.OK(), nil
	}), withRequestDep(d))

	t.Run("keeps supplied id", func(t *testing.T) {
		res, err := h.ServeWire(t.Context(), parseRequest(t, "GET / HTTP/1.1\r\nX-Request-Id: abc-123\r\n\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", res.Header[RequestIDHeader])

		entry := logs.TakeAll()[0]
		assert.Equal(t, "abc-123", entry.ContextMap()["request_id"])
	})

	t.Run("generates an id", func(t *testing.T) {
		res, err := h.ServeWire(t.Context(), parseRequest(t, "GET / HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		_, err = uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, res.Header[RequestIDHeader])
	})

	t.Run("errors pass through", func(t *testing.T) {
		res, err := h.ServeWire(t.Context(), parseRequest(t, "GET /fail HTTP/1.1\r\n\r\n"))
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, bwire.CodeForbidden, bwire.CodeOf(err))
	})
}

func TestLogWithoutMiddleware(t *testing.T) {
	assert.PanicsWithValue(t, "bwa: requestDep not found in context; is the middleware configured?", func() {
		Log(t.Context())
	})
	assert.Empty(t, RequestID(t.Context()))
	assert.Nil(t, LWA(t.Context()))
}
