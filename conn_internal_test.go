package bwire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEnd(t *testing.T) {
	for _, tt := range []struct {
		raw  string
		want int
	}{
		{"GET / HTTP/1.1\r\n\r\n", 18},
		{"GET / HTTP/1.1\n\nbody", 16},
		{"GET / HTTP/1.1\r\nA: b\r\n", -1},
		{"GET / HTTP/1.1\r\n\x00\r\nx", 19},
		{"", -1},
	} {
		assert.Equal(t, tt.want, headerEnd([]byte(tt.raw)), "%q", tt.raw)
	}
}

func TestContentLength(t *testing.T) {
	for _, tt := range []struct {
		raw       string
		want      int
		announced bool
	}{
		{"POST / HTTP/1.1\r\nContent-Length: 12\r\n\r\n", 12, true},
		{"POST / HTTP/1.1\r\ncontent-length:3\r\n\r\n", 3, true},
		{"POST / HTTP/1.1\r\nContent-Length: 0\r\n\r\n", 0, true},
		{"POST / HTTP/1.1\r\nContent-Length: 9223372036854775807\r\n\r\n", 9223372036854775807, true},
		{"POST / HTTP/1.1\r\nContent-Length: abc\r\n\r\n", 0, false},
		{"POST / HTTP/1.1\r\nContent-Length: -4\r\n\r\n", 0, false},
		{"GET / HTTP/1.1\r\n\r\n", 0, false},
	} {
		n, announced := contentLength([]byte(tt.raw))
		assert.Equal(t, tt.want, n, "%q", tt.raw)
		assert.Equal(t, tt.announced, announced, "%q", tt.raw)
	}
}

func TestErrorResponse(t *testing.T) {
	t.Run("unknown errors are internal", func(t *testing.T) {
		res := errorResponse(errors.New("boom"))
		require.Equal(t, uint16(500), res.Status)
		require.Equal(t, "Internal Server Error", res.ReasonPhrase)
		require.Empty(t, res.Body)
	})

	t.Run("client errors show their cause", func(t *testing.T) {
		res := errorResponse(NewError(CodeUnprocessableEntity, errors.New("missing name")))
		require.Equal(t, uint16(422), res.Status)
		require.Equal(t, "Unprocessable Entity", res.ReasonPhrase)
		require.Equal(t, "missing name", string(res.Body))
	})

	t.Run("server errors hide their cause", func(t *testing.T) {
		res := errorResponse(NewError(CodeServiceUnavailable, errors.New("db down")))
		require.Equal(t, uint16(503), res.Status)
		require.Empty(t, res.Body)
	})
}

func TestIsStaticCandidate(t *testing.T) {
	assert.True(t, isStaticCandidate("GET", "/style.css"))
	assert.False(t, isStaticCandidate("GET", "/style"))
	assert.False(t, isStaticCandidate("POST", "/style.css"))
}

func TestRoutePath(t *testing.T) {
	for in, want := range map[string]string{
		"/files/a%2Fb": "/files/a%2Fb",
		"/files/a%2fb": "/files/a%2fb",
		"/files/a%20b": "/files/a b",
		"/a%3Ab/c%2Fd": "/a:b/c%2Fd",
		"/plain/path":  "/plain/path",
		"/pct%2525":    "/pct%25",
		"/trailing%2F": "/trailing%2F",
	} {
		assert.Equal(t, want, routePath(in), in)
	}
}
