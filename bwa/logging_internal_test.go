package bwa

import (
	"context"
	"testing"
	"time"

	"github.com/advdv/bwire"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
	dir     string
	bucket  string
}

func (e testEnv) port() int               { return 8080 }
func (e testEnv) serviceName() string     { return "test" }
func (e testEnv) healthCheckPath() string { return "/health" }
func (e testEnv) logLevel() zapcore.Level { return e.level }
func (e testEnv) otelExporter() string {
	if e.otelExp == "" {
		return "stdout"
	}
	return e.otelExp
}
func (e testEnv) readChunkSize() int          { return 1024 }
func (e testEnv) maxRequestSize() int         { return 1 << 20 }
func (e testEnv) readTimeout() time.Duration  { return 0 }
func (e testEnv) writeTimeout() time.Duration { return 0 }
func (e testEnv) maxConnections() int         { return 0 }
func (e testEnv) staticDir() string           { return e.dir }
func (e testEnv) staticBucket() string        { return e.bucket }
func (e testEnv) staticPrefix() string        { return "assets" }

func TestNewLogger(t *testing.T) {
	for _, tt := range []struct {
		name    string
		level   zapcore.Level
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug level", zapcore.DebugLevel, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info level", zapcore.InfoLevel, zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn level", zapcore.WarnLevel, zapcore.WarnLevel, zapcore.InfoLevel},
		{"error level", zapcore.ErrorLevel, zapcore.ErrorLevel, zapcore.WarnLevel},
	} {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(testEnv{level: tt.level})
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.muted))
		})
	}
}

func TestZapWireLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	wl := newZapWireLogger(zap.New(core))

	wl.LogResolved("10.0.0.1:5000", "/items/1", 201)
	wl.LogParseError(bwire.ErrRequestTooLarge)
	wl.LogResolveError(errors.New("broken pipe"))
	wl.LogUnhandledServeError(errors.New("boom"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	for _, e := range entries {
		assert.Equal(t, "bwire.bwa", e.LoggerName)
	}

	assert.Equal(t, "resolved", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]any{
		"remote": "10.0.0.1:5000",
		"status": uint16(201),
		"path":   "/items/1",
	}, entries[0].ContextMap())

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "unhandled server error", entries[3].Message)
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func TestZapWireLoggerServesRequests(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := bwire.HandlerFunc(func(context.Context, *bwire.Request) (*bwire.Response, error) {
		return nil, errors.New("no luck")
	})

	req := parseRequest(t, "GET / HTTP/1.1\r\n\r\n")
	res := bwire.Serve(t.Context(), h, req, newZapWireLogger(zap.New(core)))

	assert.Equal(t, uint16(500), res.Status)
	require.Equal(t, 1, logs.FilterMessage("unhandled server error").Len())
}

func parseRequest(tb testing.TB, raw string) *bwire.Request {
	tb.Helper()
	req, err := bwire.ParseRequest([]byte(raw), nil)
	require.NoError(tb, err)
	return req
}
