package bwa

import (
	"context"
	"time"

	"github.com/advdv/bwire"
	"github.com/advdv/bwire/jsonval"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const (
	ctxKeyRequestDep ctxKey = iota
	ctxKeyRequestID
	ctxKeyLWAContext
)

// RequestIDHeader carries the request id. A caller supplied id is kept, otherwise one is generated.
const RequestIDHeader = "X-Request-Id"

// requestDep holds request-scoped dependencies available via context.
// App-scoped dependencies (env, server) are accessed via Runtime instead.
type requestDep struct {
	logger *zap.Logger
}

// LWAContext contains Lambda execution context from the x-amzn-lambda-context header.
type LWAContext struct {
	RequestID          string
	Deadline           int64
	InvokedFunctionARN string
	XRayTraceID        string
	EnvConfig          LWAEnvConfig
}

// LWAEnvConfig contains Lambda function environment configuration.
type LWAEnvConfig struct {
	FunctionName string
	Memory       int
	Version      string
	LogGroup     string
	LogStream    string
}

// DeadlineTime returns the Lambda invocation deadline as a time.Time.
func (lc *LWAContext) DeadlineTime() time.Time {
	if lc.Deadline == 0 {
		return time.Time{}
	}
	return time.UnixMilli(lc.Deadline)
}

// RemainingTime returns the duration until the Lambda invocation deadline.
func (lc *LWAContext) RemainingTime() time.Duration {
	if lc.Deadline == 0 {
		return 0
	}
	return max(time.Until(lc.DeadlineTime()), 0)
}

// ParseLWAContext decodes the JSON value of the x-amzn-lambda-context header. Missing members are left zero.
func ParseLWAContext(header string) (*LWAContext, error) {
	obj, err := jsonval.Parse([]byte(header))
	if err != nil {
		return nil, errors.Wrap(err, "parse lambda context")
	}

	lc := &LWAContext{
		RequestID:          optString(obj, "request_id"),
		InvokedFunctionARN: optString(obj, "invoked_function_arn"),
		XRayTraceID:        optString(obj, "xray_trace_id"),
	}

	if lc.Deadline, err = optInt(obj, "deadline"); err != nil {
		return nil, err
	}

	if cfg, err := obj.GetObject("env_config"); err == nil {
		lc.EnvConfig = LWAEnvConfig{
			FunctionName: optString(cfg, "function_name"),
			Version:      optString(cfg, "version"),
			LogGroup:     optString(cfg, "log_group"),
			LogStream:    optString(cfg, "log_stream"),
		}

		mem, err := optInt(cfg, "memory")
		if err != nil {
			return nil, err
		}
		lc.EnvConfig.Memory = int(mem)
	}

	return lc, nil
}

func optString(obj jsonval.Object, key string) string {
	s, _ := obj.GetString(key)
	return s
}

func optInt(obj jsonval.Object, key string) (int64, error) {
	s, err := obj.GetString(key)
	if errors.Is(err, jsonval.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return jsonval.Scalar(s).Int()
}

// withRequestDep injects dependencies and the request id into the request context, and echoes the id on the
// response.
func withRequestDep(d *requestDep) bwire.Middleware {
	return func(next bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			ctx = context.WithValue(ctx, ctxKeyRequestDep, d)
			ctx = context.WithValue(ctx, ctxKeyRequestID, id)

			res, err := next.ServeWire(ctx, r)
			if err != nil {
				return nil, err
			}
			if res != nil {
				res.AddHeader(RequestIDHeader, id)
			}

			return res, nil
		})
	}
}

// withLWAContext parses the x-amzn-lambda-context header from AWS Lambda Web Adapter.
func withLWAContext() bwire.Middleware {
	return func(next bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			if header := r.Header.Get("x-amzn-lambda-context"); header != "" {
				if lc, err := ParseLWAContext(header); err == nil {
					ctx = context.WithValue(ctx, ctxKeyLWAContext, lc)
				}
			}
			return next.ServeWire(ctx, r)
		})
	}
}

func requestDepFromContext(ctx context.Context) *requestDep {
	d, ok := ctx.Value(ctxKeyRequestDep).(*requestDep)
	if !ok {
		panic("bwa: requestDep not found in context; is the middleware configured?")
	}
	return d
}

// LWA retrieves the LWAContext from the request context.
// Returns nil if not running in a Lambda environment.
func LWA(ctx context.Context) *LWAContext {
	lc, _ := ctx.Value(ctxKeyLWAContext).(*LWAContext)
	return lc
}

// RequestID returns the id of the request being served, or an empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Log returns a request and trace-correlated zap logger from the context.
func Log(ctx context.Context) *zap.Logger {
	d := requestDepFromContext(ctx)
	return d.logger.With(append(traceFields(ctx), zap.String("request_id", RequestID(ctx)))...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
