package bwire

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogResolveError(err error)
	LogParseError(err error)
	LogResolved(remote, path string, status uint16)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("bwire: unhandled server error: %s", err)
}

func (l stdLogger) LogResolveError(err error) {
	l.Logger.Printf("bwire: failed to resolve request: %s", err)
}

func (l stdLogger) LogParseError(err error) {
	l.Logger.Printf("bwire: failed to read request: %s", err)
}

func (l stdLogger) LogResolved(remote, path string, status uint16) {
	l.Logger.Printf("bwire: resolved for %s, status: %d, path: %s", remote, status, path)
}

// NewStdLogger logs to l. A nil l logs to the standard logger.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogResolveError        int64
	NumLogParseError          int64
	NumLogResolved            int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("bwire: unhandled server error: %s", err)
}

func (l *TestLogger) LogResolveError(err error) {
	atomic.AddInt64(&l.NumLogResolveError, 1)
	l.tb.Logf("bwire: failed to resolve request: %s", err)
}

func (l *TestLogger) LogParseError(err error) {
	atomic.AddInt64(&l.NumLogParseError, 1)
	l.tb.Logf("bwire: failed to read request: %s", err)
}

func (l *TestLogger) LogResolved(remote, path string, status uint16) {
	atomic.AddInt64(&l.NumLogResolved, 1)
	l.tb.Logf("bwire: resolved for %s, status: %d, path: %s", remote, status, path)
}

var _ Logger = &TestLogger{}
