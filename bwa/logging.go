package bwa

import (
	"github.com/advdv/bwire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding suitable for CloudWatch.
// BW_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogResolveError(err error) {
	l.Logger.Error("failed to resolve request", zap.Error(err))
}

func (l zapLogger) LogParseError(err error) {
	l.Logger.Warn("failed to read request", zap.Error(err))
}

func (l zapLogger) LogResolved(remote, path string, status uint16) {
	l.Logger.Info("resolved",
		zap.String("remote", remote),
		zap.Uint16("status", status),
		zap.String("path", path))
}

func newZapWireLogger(l *zap.Logger) bwire.Logger {
	return zapLogger{l.Named("bwire").Named("bwa")}
}
