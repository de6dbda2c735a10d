// Package bwa runs a [bwire.Server] as a batteries-included service, for example behind the AWS Lambda Web
// Adapter (LWA).
//
// # Overview
//
// bwa handles the boilerplate around the server: environment parsing, structured logging, OpenTelemetry
// tracing, static resources and graceful shutdown. A complete application is a single call:
//
//	bwa.NewApp[Env](func(s *bwire.Server, h *Handlers) {
//	    s.HandleFunc("GET /items/{id}", h.GetItem, "get-item")
//	},
//	    bwa.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bwa.BaseEnvironment
//	    MainTableName string `env:"MAIN_TABLE_NAME,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable              | Required | Default | Description                                     |
//	|-----------------------|----------|---------|-------------------------------------------------|
//	| BW_SERVICE_NAME       | Yes      | -       | Service name for logging and tracing            |
//	| BW_PORT               | No       | 7878    | Port the server listens on                      |
//	| BW_HEALTH_CHECK_PATH  | No       | /health | Health check path, not traced                   |
//	| BW_LOG_LEVEL          | No       | info    | Log level (debug, info, warn, error)            |
//	| BW_OTEL_EXPORTER      | No       | stdout  | Trace exporter: "stdout", "xrayudp" or "none"   |
//	| BW_READ_CHUNK_SIZE    | No       | 1024    | Bytes per read from a connection                |
//	| BW_MAX_REQUEST_SIZE   | No       | 1048576 | Largest request accepted                        |
//	| BW_READ_TIMEOUT       | No       | 0s      | Connection read deadline, 0 disables it         |
//	| BW_WRITE_TIMEOUT      | No       | 0s      | Connection write deadline, 0 disables it        |
//	| BW_MAX_CONNECTIONS    | No       | 0       | Connections served at once, 0 is unbounded      |
//	| BW_STATIC_DIR         | No       | -       | Directory with static resources                 |
//	| BW_STATIC_BUCKET      | No       | -       | S3 bucket with static resources, wins over dir  |
//	| BW_STATIC_PREFIX      | No       | -       | Key prefix within BW_STATIC_BUCKET              |
//
// # Context
//
// Handlers receive a standard context.Context. Use the package-level functions to access request-scoped values:
//
//   - [Log] - request and trace-correlated zap logger
//   - [Span] - current OpenTelemetry span for custom instrumentation
//   - [LWA] - Lambda execution context (request ID, deadline, etc.)
//   - [RequestID] - the id echoed in the X-Request-Id response header
//
// App-scoped dependencies are injected through [Runtime] instead.
//
// # Tracing
//
// OpenTelemetry tracing is configured from BW_OTEL_EXPORTER:
//
//   - "stdout" (default): Pretty-printed spans for local development
//   - "xrayudp": X-Ray UDP exporter for Lambda with proper trace ID format
//   - "none": no spans are recorded
//
// The tracer provider and propagator are injected explicitly (no globals).
package bwa
