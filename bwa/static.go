package bwa

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/advdv/bwire"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const awsConfigTimeout = 10 * time.Second

// S3API is the part of the S3 client that [S3Source] needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves static resources from an S3 bucket. Resource paths are appended to prefix to form object keys.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source serves the objects below prefix in bucket.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Open reads the object for name. Missing objects are reported as [bwire.ErrStaticNotFound].
func (s *S3Source) Open(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(s.prefix, strings.TrimPrefix(path.Clean("/"+name), "/"))

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, errors.Mark(errors.Wrapf(err, "get s3://%s/%s", s.bucket, key), bwire.ErrStaticNotFound)
	} else if err != nil {
		return nil, errors.Wrapf(err, "get s3://%s/%s", s.bucket, key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read s3://%s/%s", s.bucket, key)
	}

	return data, nil
}

// NewAWSConfig loads the default AWS SDK v2 configuration.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// provideAWSConfig loads AWS config with a timeout.
// It automatically instruments the config with OpenTelemetry for AWS SDK tracing.
// The TracerProvider and Propagator are explicitly injected to avoid global state.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()
	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return cfg, errors.Wrap(err, "load aws config")
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}

// staticParams holds the dependencies for choosing a static source.
type staticParams struct {
	fx.In

	Env        Environment
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// provideStaticSource picks the static source from the environment: a bucket, a directory or none at all.
func provideStaticSource(p staticParams) (bwire.StaticSource, error) {
	switch {
	case p.Env.staticBucket() != "":
		cfg, err := provideAWSConfig(p.TracerProv, p.Propagator)
		if err != nil {
			return nil, err
		}
		return NewS3Source(s3.NewFromConfig(cfg), p.Env.staticBucket(), p.Env.staticPrefix()), nil
	case p.Env.staticDir() != "":
		return bwire.NewDirSource(p.Env.staticDir()), nil
	default:
		return nil, nil
	}
}
