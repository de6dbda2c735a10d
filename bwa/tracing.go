package bwa

import (
	"context"
	"strings"
	"time"

	"github.com/advdv/bwire"
	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

const (
	tracingInitTimeout = 5 * time.Second
	tracerName         = "github.com/advdv/bwire/bwa"
)

// NewTracerProvider creates and configures the OpenTelemetry TracerProvider.
// Supported exporters via BW_OTEL_EXPORTER: "stdout" (default), "xrayudp" (Lambda) and "none".
// Shutdown is handled automatically via fx.Lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	exporterType := env.otelExporter()
	if exporterType == "none" {
		return noop.NewTracerProvider(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), tracingInitTimeout)
	defer cancel()

	exporter, err := newExporter(ctx, exporterType)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, exporterType, env.serviceName())
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	}
	if exporterType == "xrayudp" {
		opts = append(opts, sdktrace.WithIDGenerator(xray.NewIDGenerator()))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// NewPropagator creates a TextMapPropagator based on the exporter type.
// For xrayudp: uses X-Ray propagator for AWS Lambda environments.
// Otherwise: uses W3C TraceContext + Baggage composite propagator.
func NewPropagator(env Environment) propagation.TextMapPropagator {
	if env.otelExporter() == "xrayudp" {
		return xray.Propagator{}
	}
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// newExporter creates a span exporter based on the exporter type.
func newExporter(ctx context.Context, exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "stdout", "":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "xrayudp":
		return xrayudp.NewSpanExporter(ctx)
	default:
		return nil, errors.Newf("unsupported BW_OTEL_EXPORTER: %q (supported: stdout, xrayudp, none)", exporterType)
	}
}

// newResource creates a resource with appropriate attributes for the exporter.
func newResource(ctx context.Context, exporterType, serviceName string) (*resource.Resource, error) {
	if exporterType == "xrayudp" {
		// Use Lambda resource detector for production Lambda environment.
		return lambda.NewResourceDetector().Detect(ctx)
	}

	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	), nil
}

// headerCarrier adapts request headers to a TextMapCarrier. Lookups fall back to a case-insensitive match since
// propagators use lower case names.
type headerCarrier bwire.Header

func (c headerCarrier) Get(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	for k, v := range c {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) { c[key] = value }
func (c headerCarrier) Keys() []string        { return bwire.Header(c).Keys() }

var _ propagation.TextMapCarrier = headerCarrier{}

// withTracing starts a server span for every request, continuing the trace found in the request headers.
// Requests to excludePaths are not traced.
// The TracerProvider and Propagator are explicitly injected to avoid global state.
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, excludePaths ...string) bwire.Middleware {
	tracer := tp.Tracer(tracerName)
	excluded := lo.SliceToMap(excludePaths, func(p string) (string, struct{}) { return p, struct{}{} })

	return func(next bwire.Handler) bwire.Handler {
		return bwire.HandlerFunc(func(ctx context.Context, r *bwire.Request) (*bwire.Response, error) {
			if _, skip := excluded[r.Path]; skip {
				return next.ServeWire(ctx, r)
			}

			ctx = prop.Extract(ctx, headerCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.Path),
					semconv.ClientAddress(r.RemoteAddr()),
				))
			defer span.End()

			res, err := next.ServeWire(ctx, r)

			var status uint16
			switch {
			case err != nil:
				span.RecordError(err)
				status = uint16(bwire.CodeOf(err))
				if status == 0 {
					status = uint16(bwire.CodeInternalServerError)
				}
			case res != nil:
				status = res.Status
			}

			span.SetAttributes(semconv.HTTPResponseStatusCode(int(status)))
			if status >= 500 {
				span.SetStatus(codes.Error, bwire.ReasonPhrase(status))
			}

			return res, err
		})
	}
}
