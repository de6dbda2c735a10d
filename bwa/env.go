package bwa

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	readChunkSize() int
	maxRequestSize() int
	readTimeout() time.Duration
	writeTimeout() time.Duration
	maxConnections() int
	staticDir() string
	staticBucket() string
	staticPrefix() string
}

// BaseEnvironment contains the environment variables every bwa application reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port            int           `env:"BW_PORT" envDefault:"7878"`
	ServiceName     string        `env:"BW_SERVICE_NAME,required"`
	HealthCheckPath string        `env:"BW_HEALTH_CHECK_PATH" envDefault:"/health"`
	LogLevel        zapcore.Level `env:"BW_LOG_LEVEL" envDefault:"info"`
	// OtelExporter selects where spans go: "stdout", "xrayudp" or "none".
	OtelExporter   string        `env:"BW_OTEL_EXPORTER" envDefault:"stdout"`
	ReadChunkSize  int           `env:"BW_READ_CHUNK_SIZE" envDefault:"1024"`
	MaxRequestSize int           `env:"BW_MAX_REQUEST_SIZE" envDefault:"1048576"`
	ReadTimeout    time.Duration `env:"BW_READ_TIMEOUT" envDefault:"0s"`
	WriteTimeout   time.Duration `env:"BW_WRITE_TIMEOUT" envDefault:"0s"`
	// MaxConnections bounds the connections served at once, zero means unbounded.
	MaxConnections int `env:"BW_MAX_CONNECTIONS" envDefault:"0"`
	// StaticDir serves static resources from disk. StaticBucket, when set, takes precedence and serves them from S3
	// below StaticPrefix.
	StaticDir    string `env:"BW_STATIC_DIR"`
	StaticBucket string `env:"BW_STATIC_BUCKET"`
	StaticPrefix string `env:"BW_STATIC_PREFIX"`
}

func (e BaseEnvironment) port() int                   { return e.Port }
func (e BaseEnvironment) serviceName() string         { return e.ServiceName }
func (e BaseEnvironment) healthCheckPath() string     { return e.HealthCheckPath }
func (e BaseEnvironment) logLevel() zapcore.Level     { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string        { return e.OtelExporter }
func (e BaseEnvironment) readChunkSize() int          { return e.ReadChunkSize }
func (e BaseEnvironment) maxRequestSize() int         { return e.MaxRequestSize }
func (e BaseEnvironment) readTimeout() time.Duration  { return e.ReadTimeout }
func (e BaseEnvironment) writeTimeout() time.Duration { return e.WriteTimeout }
func (e BaseEnvironment) maxConnections() int         { return e.MaxConnections }
func (e BaseEnvironment) staticDir() string           { return e.StaticDir }
func (e BaseEnvironment) staticBucket() string        { return e.StaticBucket }
func (e BaseEnvironment) staticPrefix() string        { return e.StaticPrefix }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
