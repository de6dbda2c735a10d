package bwatest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bwa.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the [bwa.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BW_SERVICE_NAME: "test"
//   - BW_HEALTH_CHECK_PATH: "/health"
//   - BW_OTEL_EXPORTER: "none"
//   - BW_LOG_LEVEL: "warn"
//   - AWS_REGION: "us-east-1"
//   - AWS_ACCESS_KEY_ID: "test"
//   - AWS_SECRET_ACCESS_KEY: "test"
//
// Use the returned [Env] to override individual values:
//
//	bwatest.SetBaseEnv(t, 18085).StaticDir(dir).MaxRequestSize(64)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BW_PORT", strconv.Itoa(port))
	t.Setenv("BW_SERVICE_NAME", "test")
	t.Setenv("BW_HEALTH_CHECK_PATH", "/health")
	t.Setenv("BW_OTEL_EXPORTER", "none")
	t.Setenv("BW_LOG_LEVEL", "warn")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	return &Env{t: t}
}

// ServiceName overrides BW_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_SERVICE_NAME", name)
	return e
}

// HealthCheckPath overrides BW_HEALTH_CHECK_PATH.
func (e *Env) HealthCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_HEALTH_CHECK_PATH", path)
	return e
}

// OtelExporter overrides BW_OTEL_EXPORTER.
func (e *Env) OtelExporter(exporter string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_OTEL_EXPORTER", exporter)
	return e
}

// MaxRequestSize overrides BW_MAX_REQUEST_SIZE.
func (e *Env) MaxRequestSize(n int) *Env {
	e.t.Helper()
	e.t.Setenv("BW_MAX_REQUEST_SIZE", strconv.Itoa(n))
	return e
}

// MaxConnections overrides BW_MAX_CONNECTIONS.
func (e *Env) MaxConnections(n int) *Env {
	e.t.Helper()
	e.t.Setenv("BW_MAX_CONNECTIONS", strconv.Itoa(n))
	return e
}

// StaticDir overrides BW_STATIC_DIR.
func (e *Env) StaticDir(dir string) *Env {
	e.t.Helper()
	e.t.Setenv("BW_STATIC_DIR", dir)
	return e
}
