package bwa

import (
	"context"
	"fmt"
	"net"

	"github.com/advdv/bwire"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
)

// ServerConfig holds optional configuration for the server.
type ServerConfig struct {
	HealthHandler bwire.HandlerFunc
}

// ServerParams holds the dependencies for creating a server.
type ServerParams struct {
	fx.In

	Env        Environment
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Static     bwire.StaticSource `optional:"true"`
}

// NewServer creates a server with all middleware and the health check configured.
func NewServer(params ServerParams, cfg ServerConfig) *bwire.Server {
	srv := bwire.NewServerWith(bwire.ServerOptions{
		Logger:         newZapWireLogger(params.Logger),
		ReadChunkSize:  params.Env.readChunkSize(),
		MaxRequestSize: params.Env.maxRequestSize(),
		ReadTimeout:    params.Env.readTimeout(),
		WriteTimeout:   params.Env.writeTimeout(),
		Static:         params.Static,
	}, bwire.NewRouteTable(), bwire.NewReverser())

	d := &requestDep{
		logger: params.Logger,
	}

	// Tracing is disabled for the health path to avoid noisy orphan traces from readiness probes.
	healthPath := params.Env.healthCheckPath()
	srv.Use(withTracing(params.TracerProv, params.Propagator, healthPath))
	srv.Use(withRequestDep(d))
	srv.Use(withLWAContext())
	srv.Use(WithRequestDeadline(DefaultDeadlineBuffer))

	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	srv.HandleFunc("GET "+healthPath, healthHandler, "health")

	return srv
}

// startServerHook registers lifecycle hooks for the server.
func startServerHook(lc fx.Lifecycle, srv *bwire.Server, env Environment, logger *zap.Logger) {
	addr := fmt.Sprintf(":%d", env.port())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", addr)
			}
			if n := env.maxConnections(); n > 0 {
				ln = netutil.LimitListener(ln, n)
			}

			logger.Info("starting server", zap.String("addr", addr))
			go func() {
				defer ln.Close()
				if err := srv.Serve(context.Background(), ln); err != nil && !errors.Is(err, bwire.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(context.Context, *bwire.Request) (*bwire.Response, error) {
	return bwire.OK(), nil
}
